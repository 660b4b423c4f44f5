package matcher

import (
	"github.com/babitron/trainboard/pkg/delays"
	"github.com/babitron/trainboard/pkg/timetable"
)

// Telemetry are the per-cycle debug counters over a match result set. Pure
// derived statistics, recomputed every cycle.
type Telemetry struct {
	Confidence map[Confidence]int  `json:"confidence" groups:"detailed"`
	Reasons    map[MatchReason]int `json:"match_reasons" groups:"detailed"`

	Statuses map[delays.Status]int `json:"statuses" groups:"detailed"`

	TrainNumbers TrainNumberAvailability `json:"train_number_availability" groups:"detailed"`
}

// TrainNumberAvailability splits scheduled departures by whether a train
// number could be parsed for them at all.
type TrainNumberAvailability struct {
	With    int `json:"with_train_number" groups:"detailed"`
	Without int `json:"without_train_number" groups:"detailed"`
}

// Summarize computes the telemetry counters for a matched departure sequence.
// departures and results are expected to be aligned, the way MatchAll returns
// them.
func Summarize(departures []timetable.Departure, results []MatchResult) Telemetry {
	telemetry := Telemetry{
		Confidence: map[Confidence]int{
			ConfidenceHigh:    0,
			ConfidenceMedium:  0,
			ConfidenceUnknown: 0,
		},
		Reasons: map[MatchReason]int{
			MatchReasonTrainNumber: 0,
			MatchReasonRouteCode:   0,
			MatchReasonNone:        0,
		},
		Statuses: map[delays.Status]int{},
	}

	for _, result := range results {
		telemetry.Confidence[result.Confidence]++
		telemetry.Reasons[result.Reason]++

		status := delays.StatusUnknown
		if result.Record != nil {
			status = result.Record.Status
		}
		telemetry.Statuses[status]++
	}

	for _, departure := range departures {
		if departure.TrainNumber == nil {
			telemetry.TrainNumbers.Without++
		} else {
			telemetry.TrainNumbers.With++
		}
	}

	return telemetry
}
