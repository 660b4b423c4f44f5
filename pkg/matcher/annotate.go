package matcher

import (
	"fmt"

	"github.com/babitron/trainboard/pkg/delays"
	"github.com/babitron/trainboard/pkg/timetable"
)

// MinuteKey addresses one chip in the compact hour/minute view.
type MinuteKey struct {
	Hour   int
	Minute string
}

// MinuteAnnotation is the status badge rendered on one chip.
type MinuteAnnotation struct {
	Status delays.Status `json:"status"`
	Label  string        `json:"label"`
}

// StatusLabel is the short Czech badge text for a match. Delayed trains show
// their minute count when it is known.
func StatusLabel(result MatchResult) string {
	status := delays.StatusUnknown
	if result.Record != nil {
		status = result.Record.Status
	}

	switch status {
	case delays.StatusOnTime:
		return "vcas"
	case delays.StatusDelayed:
		if result.Record.DelayMinutes == nil {
			return "zpozdeni"
		}
		return fmt.Sprintf("+%d", *result.Record.DelayMinutes)
	case delays.StatusCanceled:
		return "zrusen"
	case delays.StatusDiverted:
		return "odklon"
	case delays.StatusDisruption:
		return "vyluka"
	default:
		return "nezname"
	}
}

// AnnotateMinutes decides which chips of the compact view get a status badge.
// Only high-confidence results of the active day are eligible - ambiguity must
// never surface as a false positive in the terse display. A chip is annotated
// only when all its matches agree on a single non-unknown status; delayed
// chips whose matches disagree on the minute value fall back to the generic
// label. The second return value is the number of candidate chips considered.
func AnnotateMinutes(departures []timetable.Departure, results []MatchResult) (map[MinuteKey]MinuteAnnotation, int) {
	minuteMatches := map[MinuteKey][]MatchResult{}

	for index, departure := range departures {
		if index >= len(results) {
			break
		}

		result := results[index]
		if !result.IsToday || result.Confidence != ConfidenceHigh {
			continue
		}

		key := MinuteKey{Hour: departure.Hour, Minute: departure.Minute}
		minuteMatches[key] = append(minuteMatches[key], result)
	}

	annotations := map[MinuteKey]MinuteAnnotation{}

	for key, matches := range minuteMatches {
		status := matches[0].Record.Status
		unanimous := true
		for _, match := range matches[1:] {
			if match.Record.Status != status {
				unanimous = false
				break
			}
		}

		if !unanimous || status == delays.StatusUnknown {
			continue
		}

		label := StatusLabel(matches[0])
		if status == delays.StatusDelayed && !agreeOnDelayMinutes(matches) {
			label = "zpozdeni"
		}

		annotations[key] = MinuteAnnotation{Status: status, Label: label}
	}

	return annotations, len(minuteMatches)
}

func agreeOnDelayMinutes(matches []MatchResult) bool {
	first := matches[0].Record.DelayMinutes
	if first == nil {
		return false
	}

	for _, match := range matches[1:] {
		value := match.Record.DelayMinutes
		if value == nil || *value != *first {
			return false
		}
	}

	return true
}
