package matcher

import (
	"regexp"
	"unicode"

	"github.com/babitron/trainboard/pkg/util"
)

var routeCodeSplitRegex = regexp.MustCompile(`[^a-z0-9]+`)

// IsRouteCodeToken reports whether a folded token looks like a route code:
// 2-8 alphanumeric characters mixing at least one letter with at least one
// digit, e.g. "p2" or "s70". Pure words and pure numbers are too ambiguous to
// match on.
func IsRouteCodeToken(token string) bool {
	if len(token) < 2 || len(token) > 8 {
		return false
	}

	hasAlpha := false
	hasDigit := false
	for _, char := range token {
		switch {
		case char >= 'a' && char <= 'z':
			hasAlpha = true
		case unicode.IsDigit(char):
			hasDigit = true
		default:
			return false
		}
	}

	return hasAlpha && hasDigit
}

// ExtractRouteCodes tokenizes a route description and keeps the unique
// route-code looking tokens.
func ExtractRouteCodes(value string) []string {
	tokens := routeCodeSplitRegex.Split(util.FoldText(value), -1)
	util.InPlaceFilter(&tokens, IsRouteCodeToken)

	return util.RemoveDuplicateStrings(tokens, nil)
}
