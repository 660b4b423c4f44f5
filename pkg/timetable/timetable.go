package timetable

import (
	"sort"
	"strings"
	"time"

	"github.com/babitron/trainboard/pkg/delays"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type DayBucket string

const (
	BucketWorkdays DayBucket = "workdays"
	BucketSaturday DayBucket = "saturday"
	BucketSunday   DayBucket = "sunday"
)

var bucketDays = map[DayBucket][]int{
	BucketWorkdays: {0, 1, 2, 3, 4},
	BucketSaturday: {5},
	BucketSunday:   {6},
}

// ActiveBucket is the calendar-day bucket eligible for live annotation at the
// given moment.
func ActiveBucket(now time.Time) DayBucket {
	switch now.Weekday() {
	case time.Saturday:
		return BucketSaturday
	case time.Sunday:
		return BucketSunday
	default:
		return BucketWorkdays
	}
}

// Departure is one scheduled departure from the static timetable, the unit the
// matcher annotates.
type Departure struct {
	TripID         string `json:"trip_id" groups:"detailed"`
	RouteID        string `json:"route_id" groups:"detailed"`
	RouteShortName string `json:"route_short_name" groups:"basic,detailed"`
	RouteLongName  string `json:"route_long_name" groups:"basic,detailed"`

	DepartureTime string `json:"departure_time" groups:"basic,detailed"`
	Hour          int    `json:"hour" groups:"detailed"`
	Minute        string `json:"minute" groups:"detailed"`

	FromStopID string `json:"from_stop_id" groups:"detailed"`
	ToStopID   string `json:"to_stop_id" groups:"detailed"`
	Direction  string `json:"direction" groups:"detailed"`

	TrainCategory *string `json:"train_category" groups:"detailed"`
	TrainNumber   *int    `json:"train_number" groups:"detailed"`
}

// DayMinutes is the scheduled departure time as minutes since midnight, -1
// when it cannot be parsed.
func (d Departure) DayMinutes() int {
	return delays.DayMinutes(d.DepartureTime)
}

// DayTimetable is one day bucket: the ordered departure sequence plus the
// hour -> minutes grouping for the compact chip view.
type DayTimetable struct {
	Hours      map[int][]string
	Departures []Departure
}

type Timetable struct {
	FromStop string
	ToStop   string

	Buckets map[DayBucket]*DayTimetable
}

// BuildTimetable extracts every departure where fromStop is immediately
// followed by toStop on a trip, bucketed by service day. The result is
// immutable once built; live annotation happens per request elsewhere.
func (s *Schedule) BuildTimetable(fromStop string, toStop string) *Timetable {
	routesByID := map[string]Route{}
	for _, route := range s.Routes {
		routesByID[route.ID] = route
	}

	tripsByID := map[string]Trip{}
	for _, trip := range s.Trips {
		tripsByID[trip.ID] = trip
	}

	serviceDays := s.ServiceDays()

	stopTimesByTrip := map[string][]StopTime{}
	for _, stopTime := range s.StopTimes {
		stopTimesByTrip[stopTime.TripID] = append(stopTimesByTrip[stopTime.TripID], stopTime)
	}

	// adjacent stop pairs: fromStop directly followed by toStop
	var matched []StopTime
	for _, stopTimes := range stopTimesByTrip {
		sort.SliceStable(stopTimes, func(a, b int) bool {
			return stopTimes[a].StopSequence < stopTimes[b].StopSequence
		})

		for index := 0; index < len(stopTimes)-1; index++ {
			if stopTimes[index].StopID == fromStop && stopTimes[index+1].StopID == toStop {
				matched = append(matched, stopTimes[index])
			}
		}
	}

	timetable := &Timetable{
		FromStop: fromStop,
		ToStop:   toStop,
		Buckets: map[DayBucket]*DayTimetable{
			BucketWorkdays: {Hours: map[int][]string{}},
			BucketSaturday: {Hours: map[int][]string{}},
			BucketSunday:   {Hours: map[int][]string{}},
		},
	}

	sort.SliceStable(matched, func(a, b int) bool {
		if matched[a].DepartureTime == matched[b].DepartureTime {
			return matched[a].TripID < matched[b].TripID
		}
		return matched[a].DepartureTime < matched[b].DepartureTime
	})

	direction := fromStop + ">" + toStop

	for _, stopTime := range matched {
		departureTime := normalizeDepartureTime(stopTime.DepartureTime)
		if departureTime == "" {
			continue
		}

		trip := tripsByID[stopTime.TripID]
		route := routesByID[trip.RouteID]

		category, number := delays.ParseTrainIdentity(trip.Name)
		if number == nil {
			category, number = delays.ParseTrainIdentity(route.ShortName)
		}

		parts := strings.Split(departureTime, ":")
		hour := delays.DayMinutes(departureTime) / 60

		departure := Departure{
			TripID:         stopTime.TripID,
			RouteID:        trip.RouteID,
			RouteShortName: route.ShortName,
			RouteLongName:  route.LongName,
			DepartureTime:  departureTime,
			Hour:           hour,
			Minute:         parts[1],
			FromStopID:     fromStop,
			ToStopID:       toStop,
			Direction:      direction,
			TrainCategory:  category,
			TrainNumber:    number,
		}

		for bucket, days := range bucketDays {
			if !serviceRunsOn(serviceDays[trip.ServiceID], days) {
				continue
			}

			day := timetable.Buckets[bucket]
			day.Departures = append(day.Departures, departure)

			if !slices.Contains(day.Hours[hour], departure.Minute) {
				day.Hours[hour] = append(day.Hours[hour], departure.Minute)
			}
		}
	}

	for _, day := range timetable.Buckets {
		for _, minutes := range day.Hours {
			sort.Strings(minutes)
		}
	}

	return timetable
}

// SortedHours returns the chip view rows in hour order.
func (d *DayTimetable) SortedHours() []HourRow {
	hours := maps.Keys(d.Hours)
	sort.Ints(hours)

	rows := make([]HourRow, 0, len(hours))
	for _, hour := range hours {
		rows = append(rows, HourRow{Hour: hour, Minutes: d.Hours[hour]})
	}

	return rows
}

type HourRow struct {
	Hour    int
	Minutes []string
}

// Payload is the documented JSON timetable shape: the per-day hour groupings
// plus the detailed departure records.
func (t *Timetable) Payload() map[string]any {
	departures := map[string]any{}
	hours := map[DayBucket]map[int][]string{}

	for bucket, day := range t.Buckets {
		departures[string(bucket)] = day.Departures
		hours[bucket] = day.Hours
	}

	return map[string]any{
		"workdays":   hours[BucketWorkdays],
		"saturday":   hours[BucketSaturday],
		"sunday":     hours[BucketSunday],
		"departures": departures,
	}
}

func serviceRunsOn(serviceDays map[int]bool, days []int) bool {
	for _, day := range days {
		if serviceDays[day] {
			return true
		}
	}

	return false
}

// normalizeDepartureTime keeps HH:MM:SS values and zero pads single digit
// hours so string ordering matches time ordering. GTFS times past midnight
// (24:xx and later) are kept as-is.
func normalizeDepartureTime(value string) string {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return ""
	}

	if len(parts[0]) == 1 {
		parts[0] = "0" + parts[0]
	}

	return strings.Join(parts, ":")
}
