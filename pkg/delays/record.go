package delays

// Status classifies one live-status row. Canceled, diverted and disruption
// trains share a null numeric delay in the legacy feed, so the enum is the only
// reliable way to tell them apart.
type Status string

const (
	StatusOnTime     Status = "on_time"
	StatusDelayed    Status = "delayed"
	StatusCanceled   Status = "canceled"
	StatusDiverted   Status = "diverted"
	StatusDisruption Status = "disruption"
	StatusUnknown    Status = "unknown"
)

// SourcePage records which status page a record was scraped from.
type SourcePage string

const (
	SourcePageZPOnline   SourcePage = "zponline"
	SourcePageZPOnlineOS SourcePage = "zponlineos"
)

// DelayRecord is the normalized live-status entry for one train identity.
//
// The first block of fields mirrors the legacy scrape response key for key so
// existing consumers keep working; the second block carries the additive
// normalized fields.
type DelayRecord struct {
	Train               string `json:"train" groups:"basic,detailed"`
	Name                string `json:"name" groups:"detailed"`
	Route               string `json:"route" groups:"detailed"`
	Station             string `json:"station" groups:"detailed"`
	ScheduledActualTime string `json:"scheduled_actual_time" groups:"detailed"`
	DelayText           string `json:"delay_text" groups:"detailed"`

	// Delay is the legacy numeric field: 0 for on time, minutes for delayed,
	// null for every other status
	Delay *int `json:"delay" groups:"detailed"`

	Status        Status  `json:"status" groups:"basic,detailed"`
	DelayMinutes  *int    `json:"delay_minutes" groups:"basic,detailed"`
	TrainCategory *string `json:"train_category" groups:"basic,detailed"`
	TrainNumber   *int    `json:"train_number" groups:"basic,detailed"`
	RouteText     string  `json:"route_text" groups:"detailed"`
	StationText   string  `json:"station_text" groups:"detailed"`

	ScheduledTimeHHMM *string `json:"scheduled_time_hhmm" groups:"basic,detailed"`
	ActualTimeHHMM    *string `json:"actual_time_hhmm" groups:"basic,detailed"`

	SourcePage SourcePage `json:"source_page" groups:"detailed"`
}

// ScheduledDayMinutes returns the scheduled time as minutes since midnight,
// falling back to the raw combined column when no normalized value was parsed.
// Returns -1 when no time is available.
func (r *DelayRecord) ScheduledDayMinutes() int {
	if r.ScheduledTimeHHMM != nil {
		if minutes := DayMinutes(*r.ScheduledTimeHHMM); minutes >= 0 {
			return minutes
		}
	}

	return DayMinutes(r.ScheduledActualTime)
}
