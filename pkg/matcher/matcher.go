package matcher

import (
	"github.com/babitron/trainboard/pkg/delays"
	"github.com/babitron/trainboard/pkg/timetable"
	"github.com/babitron/trainboard/pkg/util"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceUnknown Confidence = "unknown"
)

type MatchReason string

const (
	MatchReasonTrainNumber MatchReason = "train_number"
	MatchReasonRouteCode   MatchReason = "route_code"
	MatchReasonNone        MatchReason = "none"
)

// TimeToleranceMinutes is how far a record's scheduled time may drift from the
// departure's scheduled time and still count as the same train.
const TimeToleranceMinutes = 3

// MatchResult annotates one scheduled departure with a delay record, a
// calibrated confidence and the rule that produced it. An absent record means
// "no reliable information", which is explicitly not the same as on time.
type MatchResult struct {
	Confidence Confidence          `json:"confidence" groups:"basic,detailed"`
	Reason     MatchReason         `json:"match_reason" groups:"detailed"`
	Record     *delays.DelayRecord `json:"delay_record" groups:"basic,detailed"`
	IsToday    bool                `json:"is_today" groups:"detailed"`
}

// Matcher matches scheduled departures against one cycle's delay records. It
// holds no state beyond the cycle's index and is safe to discard afterwards.
type Matcher struct {
	index *RecordIndex
}

func New(records delays.RecordSet) *Matcher {
	return &Matcher{index: NewRecordIndex(records)}
}

// stageOutcome is the tagged result of one matching stage: either a definitive
// match or a signal to continue with the next stage.
type stageOutcome struct {
	matched bool
	result  MatchResult
}

func stageMatched(confidence Confidence, reason MatchReason, record *delays.DelayRecord) stageOutcome {
	// results are rebuilt fresh every cycle, so hand out a copy instead of a
	// pointer into the live index
	recordCopy := &delays.DelayRecord{}
	if err := copier.CopyWithOption(recordCopy, record, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Str("train", record.Train).Msg("Failed to copy matched record")
		recordCopy = record
	}

	return stageOutcome{
		matched: true,
		result: MatchResult{
			Confidence: confidence,
			Reason:     reason,
			Record:     recordCopy,
		},
	}
}

func stageContinue() stageOutcome {
	return stageOutcome{}
}

func noMatch() MatchResult {
	return MatchResult{
		Confidence: ConfidenceUnknown,
		Reason:     MatchReasonNone,
	}
}

// Match evaluates the layered matching policy for one departure: strict train
// number first (with a time based tie-break between duplicates), route-code
// heuristic second, unknown otherwise.
func (m *Matcher) Match(departure timetable.Departure) MatchResult {
	departureMinutes := departure.DayMinutes()
	if departureMinutes < 0 {
		return noMatch()
	}

	stages := []func(timetable.Departure, int) stageOutcome{
		m.strictTrainNumberStage,
		m.routeCodeFallbackStage,
	}

	for _, stage := range stages {
		if outcome := stage(departure, departureMinutes); outcome.matched {
			return outcome.result
		}
	}

	return noMatch()
}

// MatchAll matches an ordered departure sequence, producing one result per
// departure in the same order. isToday gates downstream annotation
// eligibility, not the matching itself.
func (m *Matcher) MatchAll(departures []timetable.Departure, isToday bool) []MatchResult {
	results := make([]MatchResult, 0, len(departures))

	for _, departure := range departures {
		result := m.Match(departure)
		result.IsToday = isToday

		results = append(results, result)
	}

	return results
}

func (m *Matcher) strictTrainNumberStage(departure timetable.Departure, departureMinutes int) stageOutcome {
	if departure.TrainNumber == nil {
		return stageContinue()
	}

	departureCategory := ""
	if departure.TrainCategory != nil {
		departureCategory = util.FoldText(*departure.TrainCategory)
	}

	var candidates []*delays.DelayRecord
	for _, record := range m.index.TrainNumberCandidates(*departure.TrainNumber) {
		// category is optional corroboration: it only filters when both sides
		// carry one
		if departureCategory != "" && record.TrainCategory != nil && util.FoldText(*record.TrainCategory) != departureCategory {
			continue
		}

		candidates = append(candidates, record)
	}

	if len(candidates) == 1 {
		return stageMatched(ConfidenceHigh, MatchReasonTrainNumber, candidates[0])
	}

	if len(candidates) > 1 {
		util.InPlaceFilter(&candidates, func(record *delays.DelayRecord) bool {
			return withinTolerance(record, departureMinutes)
		})

		if len(candidates) == 1 {
			return stageMatched(ConfidenceHigh, MatchReasonTrainNumber, candidates[0])
		}
	}

	// zero candidates, or still ambiguous after the time filter - let the
	// route-code fallback have a go
	return stageContinue()
}

func (m *Matcher) routeCodeFallbackStage(departure timetable.Departure, departureMinutes int) stageOutcome {
	departureRouteCodes := ExtractRouteCodes(departure.RouteShortName)
	if len(departureRouteCodes) == 0 {
		return stageContinue()
	}

	candidates := m.index.RouteCodeCandidates(departureRouteCodes)
	util.InPlaceFilter(&candidates, func(record *delays.DelayRecord) bool {
		return withinTolerance(record, departureMinutes)
	})

	if len(candidates) == 1 {
		return stageMatched(ConfidenceMedium, MatchReasonRouteCode, candidates[0])
	}

	return stageContinue()
}

func withinTolerance(record *delays.DelayRecord, departureMinutes int) bool {
	recordMinutes := record.ScheduledDayMinutes()
	if recordMinutes < 0 {
		return false
	}

	difference := recordMinutes - departureMinutes
	if difference < 0 {
		difference = -difference
	}

	return difference <= TimeToleranceMinutes
}
