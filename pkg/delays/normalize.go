package delays

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/babitron/trainboard/pkg/util"
)

// RawRow is one scraped status table row, already tokenized into the six text
// columns of the upstream layout. Rows are transient and discarded once
// normalized.
type RawRow struct {
	TrainInfo           string
	Name                string
	Route               string
	Station             string
	ScheduledActualTime string
	DelayText           string
}

var (
	trainIdentityRegex = regexp.MustCompile(`\b([A-Za-z]{1,6})\s*([0-9]{1,6})\b`)
	hhmmRegex          = regexp.MustCompile(`\b([0-2]?[0-9]:[0-5][0-9])\b`)
	integerRegex       = regexp.MustCompile(`[0-9]+`)
	markupRegex        = regexp.MustCompile(`<[^>]*>`)
)

// CleanText strips embedded markup and collapses whitespace. Best effort - the
// upstream pages occasionally nest layouts the tag regex does not fully cover.
func CleanText(value string) string {
	value = markupRegex.ReplaceAllString(value, " ")
	value = html.UnescapeString(value)

	return strings.Join(strings.Fields(value), " ")
}

// ParseDelayStatus classifies the cleaned delay column. The returned minutes
// pointer is 0 for on-time trains, the parsed value for delayed ones and nil
// for every other status.
func ParseDelayStatus(text string) (Status, *int) {
	folded := util.FoldText(text)

	switch {
	case folded == "":
		return StatusUnknown, nil
	case strings.Contains(folded, "bez zpozdeni") || strings.Contains(folded, "vcas"):
		zero := 0
		return StatusOnTime, &zero
	case strings.Contains(folded, "zrusen"):
		return StatusCanceled, nil
	case strings.Contains(folded, "odklon"):
		return StatusDiverted, nil
	case strings.Contains(folded, "vyluka"):
		return StatusDisruption, nil
	}

	if match := integerRegex.FindString(folded); match != "" {
		if minutes, err := strconv.Atoi(match); err == nil {
			return StatusDelayed, &minutes
		}
	}

	return StatusUnknown, nil
}

// ParseTrainIdentity splits a leading alphabetic category from a trailing
// numeric run, e.g. "Os 7806" or "R1234". Either part may be absent when the
// pattern does not match.
func ParseTrainIdentity(value string) (*string, *int) {
	match := trainIdentityRegex.FindStringSubmatch(value)
	if match == nil {
		return nil, nil
	}

	number, err := strconv.Atoi(match[2])
	if err != nil {
		return nil, nil
	}
	category := match[1]

	return &category, &number
}

// ParseScheduledActualTimes pulls the planned and (when present) actual HH:MM
// values out of the combined time column.
func ParseScheduledActualTimes(value string) (*string, *string) {
	matches := hhmmRegex.FindAllString(value, 2)

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		return &matches[0], &matches[1]
	}
}

// ExtractHHMM returns the first HH:MM fragment of a string, or "" when none.
func ExtractHHMM(value string) string {
	return hhmmRegex.FindString(value)
}

// DayMinutes converts the first HH:MM fragment of a string into minutes since
// midnight, returning -1 when no time can be parsed.
func DayMinutes(value string) int {
	hhmm := ExtractHHMM(value)
	if hhmm == "" {
		return -1
	}

	parts := strings.SplitN(hhmm, ":", 2)
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return -1
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return -1
	}

	return hours*60 + minutes
}

// NormalizeRow turns one raw scraped row into a DelayRecord. Unparseable
// fragments degrade to absent values, never errors.
func NormalizeRow(row RawRow, source SourcePage) *DelayRecord {
	record := &DelayRecord{
		Train:               CleanText(row.TrainInfo),
		Name:                CleanText(row.Name),
		Route:               CleanText(row.Route),
		Station:             CleanText(row.Station),
		ScheduledActualTime: CleanText(row.ScheduledActualTime),
		DelayText:           CleanText(row.DelayText),
		SourcePage:          source,
	}

	record.Status, record.DelayMinutes = ParseDelayStatus(record.DelayText)
	if record.DelayMinutes != nil {
		legacyDelay := *record.DelayMinutes
		record.Delay = &legacyDelay
	}

	record.TrainCategory, record.TrainNumber = ParseTrainIdentity(record.Train)
	record.ScheduledTimeHHMM, record.ActualTimeHHMM = ParseScheduledActualTimes(record.ScheduledActualTime)

	record.RouteText = record.Route
	record.StationText = record.Station

	return record
}
