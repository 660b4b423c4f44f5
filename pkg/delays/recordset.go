package delays

import (
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// RecordSet maps the raw train identity column to its normalized record.
// Exactly one record survives per key: later ingestion silently overwrites
// earlier records. That is the documented upstream behaviour, kept on purpose
// rather than papered over with merge logic.
type RecordSet map[string]*DelayRecord

// Ingest adds a record to the set, last write wins. Rows without a train
// identity have no usable key and are dropped.
func (s RecordSet) Ingest(record *DelayRecord) {
	if record == nil || record.Train == "" {
		return
	}

	if _, exists := s[record.Train]; exists {
		log.Debug().Str("train", record.Train).Msg("Overwriting duplicate delay record")
	}

	s[record.Train] = record
}

// IngestRows normalizes and ingests a batch of scraped rows from one source
// page, preserving row order so the overwrite policy stays deterministic.
func (s RecordSet) IngestRows(rows []RawRow, source SourcePage) {
	for _, row := range rows {
		s.Ingest(NormalizeRow(row, source))
	}
}

// Clone deep copies the set so a cached cycle can be handed out without any
// risk of callers mutating shared records.
func (s RecordSet) Clone() RecordSet {
	cloned := RecordSet{}

	err := copier.CopyWithOption(&cloned, s, copier.Option{DeepCopy: true})
	if err != nil {
		log.Error().Err(err).Msg("Failed to deep copy record set")
		return s
	}

	return cloned
}
