package matcher

import (
	"testing"

	"github.com/babitron/trainboard/pkg/delays"
	"github.com/babitron/trainboard/pkg/timetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecordSet(rows ...delays.RawRow) delays.RecordSet {
	records := delays.RecordSet{}
	records.IngestRows(rows, delays.SourcePageZPOnline)

	return records
}

func testDeparture(trainName string, routeShortName string, departureTime string) timetable.Departure {
	category, number := delays.ParseTrainIdentity(trainName)

	return timetable.Departure{
		RouteShortName: routeShortName,
		DepartureTime:  departureTime,
		TrainCategory:  category,
		TrainNumber:    number,
	}
}

func TestMatchUniqueTrainNumber(t *testing.T) {
	matcher := New(testRecordSet(
		delays.RawRow{TrainInfo: "Os 7806", Route: "Beroun - Plzeň hl.n.", ScheduledActualTime: "10:14", DelayText: "5 min"},
		delays.RawRow{TrainInfo: "R 768", Route: "Plzeň hl.n. - Praha hl.n.", ScheduledActualTime: "11:02", DelayText: "bez zpoždění"},
	))

	result := matcher.Match(testDeparture("Os 7806", "P2", "10:14:00"))

	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Equal(t, MatchReasonTrainNumber, result.Reason)
	require.NotNil(t, result.Record)
	assert.Equal(t, "Os 7806", result.Record.Train)
}

func TestMatchResultRecordIsACopy(t *testing.T) {
	records := testRecordSet(
		delays.RawRow{TrainInfo: "Os 7806", ScheduledActualTime: "10:14", DelayText: "5 min"},
	)

	result := New(records).Match(testDeparture("Os 7806", "", "10:14:00"))
	require.NotNil(t, result.Record)

	result.Record.Status = delays.StatusCanceled
	assert.Equal(t, delays.StatusDelayed, records["Os 7806"].Status)
}

func TestMatchCategoryCorroboration(t *testing.T) {
	matcher := New(testRecordSet(
		delays.RawRow{TrainInfo: "Os 7806", ScheduledActualTime: "10:14", DelayText: "5 min"},
		delays.RawRow{TrainInfo: "R 7806", ScheduledActualTime: "16:40", DelayText: "zrušen"},
	))

	result := matcher.Match(testDeparture("R 7806", "", "16:40:00"))

	assert.Equal(t, ConfidenceHigh, result.Confidence)
	require.NotNil(t, result.Record)
	assert.Equal(t, "R 7806", result.Record.Train)
	assert.Equal(t, delays.StatusCanceled, result.Record.Status)
}

func TestMatchTieBreakByScheduledTime(t *testing.T) {
	// same parsed identity, different scheduled times
	matcher := New(testRecordSet(
		delays.RawRow{TrainInfo: "Os 7806 Beroun", ScheduledActualTime: "10:14", DelayText: "5 min"},
		delays.RawRow{TrainInfo: "Os 7806 Rokycany", ScheduledActualTime: "16:40", DelayText: "bez zpoždění"},
	))

	result := matcher.Match(testDeparture("Os 7806", "", "10:15:00"))

	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Equal(t, MatchReasonTrainNumber, result.Reason)
	require.NotNil(t, result.Record)
	assert.Equal(t, "Os 7806 Beroun", result.Record.Train)
}

func TestMatchAmbiguousNumberFallsThroughToRouteCode(t *testing.T) {
	// both records share the train number and the scheduled time, so the
	// strict layer cannot decide - the route-code layer picks the one record
	// carrying the departure's route code
	matcher := New(testRecordSet(
		delays.RawRow{TrainInfo: "Os 7806 Beroun", Route: "Beroun - Plzeň hl.n. (P2)", ScheduledActualTime: "10:14", DelayText: "5 min"},
		delays.RawRow{TrainInfo: "Os 7806 Rokycany", Route: "Rokycany - Plzeň hl.n.", ScheduledActualTime: "10:14", DelayText: "bez zpoždění"},
	))

	result := matcher.Match(testDeparture("Os 7806", "P2", "10:14:00"))

	assert.Equal(t, ConfidenceMedium, result.Confidence)
	assert.Equal(t, MatchReasonRouteCode, result.Reason)
	require.NotNil(t, result.Record)
	assert.Equal(t, "Os 7806 Beroun", result.Record.Train)
}

func TestMatchRouteCodeFallback(t *testing.T) {
	matcher := New(testRecordSet(
		delays.RawRow{TrainInfo: "Os 7806", Route: "Beroun - Plzeň hl.n. (P2)", ScheduledActualTime: "10:14", DelayText: "5 min"},
	))

	// the departure carries no parseable train number
	departure := testDeparture("", "P2", "10:16:00")
	require.Nil(t, departure.TrainNumber)

	result := matcher.Match(departure)

	assert.Equal(t, ConfidenceMedium, result.Confidence)
	assert.Equal(t, MatchReasonRouteCode, result.Reason)
	require.NotNil(t, result.Record)
}

func TestMatchRouteCodeOutsideTolerance(t *testing.T) {
	matcher := New(testRecordSet(
		delays.RawRow{TrainInfo: "Os 7806", Route: "Beroun - Plzeň hl.n. (P2)", ScheduledActualTime: "10:14", DelayText: "5 min"},
	))

	result := matcher.Match(testDeparture("", "P2", "11:00:00"))

	assert.Equal(t, ConfidenceUnknown, result.Confidence)
	assert.Equal(t, MatchReasonNone, result.Reason)
	assert.Nil(t, result.Record)
}

func TestMatchAmbiguousRouteCodeStaysUnknown(t *testing.T) {
	matcher := New(testRecordSet(
		delays.RawRow{TrainInfo: "Os 7806", Route: "Beroun - Plzeň hl.n. (P2)", ScheduledActualTime: "10:14", DelayText: "5 min"},
		delays.RawRow{TrainInfo: "Os 7808", Route: "Beroun - Plzeň hl.n. (P2)", ScheduledActualTime: "10:15", DelayText: "bez zpoždění"},
	))

	result := matcher.Match(testDeparture("", "P2", "10:14:00"))

	assert.Equal(t, ConfidenceUnknown, result.Confidence)
	assert.Nil(t, result.Record)
}

func TestMatchEmptyRecordSet(t *testing.T) {
	result := New(delays.RecordSet{}).Match(testDeparture("Os 7806", "P2", "10:14:00"))

	assert.Equal(t, ConfidenceUnknown, result.Confidence)
	assert.Equal(t, MatchReasonNone, result.Reason)
	assert.Nil(t, result.Record)
}

func TestMatchUnparseableDepartureTime(t *testing.T) {
	matcher := New(testRecordSet(
		delays.RawRow{TrainInfo: "Os 7806", ScheduledActualTime: "10:14", DelayText: "5 min"},
	))

	result := matcher.Match(testDeparture("Os 7806", "", ""))

	assert.Equal(t, ConfidenceUnknown, result.Confidence)
	assert.Nil(t, result.Record)
}

func TestMatchAll(t *testing.T) {
	matcher := New(testRecordSet(
		delays.RawRow{TrainInfo: "Os 7806", ScheduledActualTime: "10:14", DelayText: "5 min"},
	))

	departures := []timetable.Departure{
		testDeparture("Os 7806", "", "10:14:00"),
		testDeparture("Os 9999", "", "12:00:00"),
	}

	results := matcher.MatchAll(departures, true)
	require.Len(t, results, 2)

	assert.Equal(t, ConfidenceHigh, results[0].Confidence)
	assert.True(t, results[0].IsToday)
	assert.Equal(t, ConfidenceUnknown, results[1].Confidence)
	assert.True(t, results[1].IsToday)

	results = matcher.MatchAll(nil, false)
	assert.Empty(t, results)
}
