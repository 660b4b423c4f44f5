package matcher

import (
	"github.com/babitron/trainboard/pkg/delays"
)

// RecordIndex is the per-cycle lookup structure over a delay record set, keyed
// by train number and by route-code token. It is rebuilt from scratch every
// cycle and discarded afterwards.
type RecordIndex struct {
	byTrainNumber map[int][]*delays.DelayRecord
	byRouteCode   map[string][]*delays.DelayRecord
}

func NewRecordIndex(records delays.RecordSet) *RecordIndex {
	index := &RecordIndex{
		byTrainNumber: map[int][]*delays.DelayRecord{},
		byRouteCode:   map[string][]*delays.DelayRecord{},
	}

	for _, record := range records {
		if record.TrainNumber != nil {
			index.byTrainNumber[*record.TrainNumber] = append(index.byTrainNumber[*record.TrainNumber], record)
		}

		for _, code := range ExtractRouteCodes(record.RouteText) {
			index.byRouteCode[code] = append(index.byRouteCode[code], record)
		}
	}

	return index
}

func (i *RecordIndex) TrainNumberCandidates(trainNumber int) []*delays.DelayRecord {
	return i.byTrainNumber[trainNumber]
}

// RouteCodeCandidates returns every record sharing at least one route-code
// token with the given set, deduplicated by train identity.
func (i *RecordIndex) RouteCodeCandidates(routeCodes []string) []*delays.DelayRecord {
	seen := map[string]bool{}
	var candidates []*delays.DelayRecord

	for _, code := range routeCodes {
		for _, record := range i.byRouteCode[code] {
			if seen[record.Train] {
				continue
			}
			seen[record.Train] = true

			candidates = append(candidates, record)
		}
	}

	return candidates
}
