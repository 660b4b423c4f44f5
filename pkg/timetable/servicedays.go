package timetable

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Weekdays are numbered 0=Monday .. 6=Sunday throughout this package.

const sparseRemoveRowThreshold = 7

// ServiceDays derives the set of regular weekdays each service runs on.
//
// With calendar.txt present this is a straight read of the weekday flags;
// calendar_dates exceptions are ignored for the regular day-of-week buckets.
// Feeds that ship only calendar_dates.txt need the day pattern inferred from
// the exception rows:
//   - services with remove rows run on the weekdays those removals name
//     (a removal implies the service normally runs that day)
//   - services with only add rows run on the weekdays observed in the adds
//   - remove-only services with very few rows are treated as daily services
//     with occasional blackout dates
//   - when removals name one weekend day but not the other, the weekend is
//     completed, since regular services rarely run exactly one weekend day
//
// Services present in trips.txt but absent from all calendar data are placed
// in every bucket so their trips stay visible.
func (s *Schedule) ServiceDays() map[string]map[int]bool {
	serviceDays := map[string]map[int]bool{}

	addDay := func(serviceID string, day int) {
		if serviceDays[serviceID] == nil {
			serviceDays[serviceID] = map[int]bool{}
		}
		serviceDays[serviceID][day] = true
	}

	hasCalendar := len(s.Calendars) > 0

	for _, calendar := range s.Calendars {
		flags := []int8{
			calendar.Monday, calendar.Tuesday, calendar.Wednesday, calendar.Thursday,
			calendar.Friday, calendar.Saturday, calendar.Sunday,
		}
		for day, flag := range flags {
			if flag == 1 {
				addDay(calendar.ServiceID, day)
			}
		}
	}

	if !hasCalendar && len(s.CalendarDates) > 0 {
		s.inferDaysFromCalendarDates(addDay)
	}

	if !hasCalendar {
		// merged feeds keep service_ids in trips.txt that have no calendar
		// rows at all; treat them as unknown-day services visible every day
		missing := 0
		for _, trip := range s.Trips {
			if serviceDays[trip.ServiceID] == nil {
				missing++
				for day := 0; day < 7; day++ {
					addDay(trip.ServiceID, day)
				}
			}
		}
		if missing > 0 {
			log.Warn().Int("services", missing).Msg("Services without calendar data assigned to all weekdays")
		}
	}

	return serviceDays
}

func (s *Schedule) inferDaysFromCalendarDates(addDay func(string, int)) {
	type dayTypes struct {
		add    bool
		remove bool
	}

	perServiceDay := map[string]map[int]dayTypes{}
	rowCounts := map[string]int{}
	hasAdd := map[string]bool{}
	hasRemove := map[string]bool{}

	for _, exception := range s.CalendarDates {
		date, err := time.ParseInLocation("20060102", exception.Date, time.UTC)
		if err != nil {
			continue
		}
		day := (int(date.Weekday()) + 6) % 7

		if perServiceDay[exception.ServiceID] == nil {
			perServiceDay[exception.ServiceID] = map[int]dayTypes{}
		}

		types := perServiceDay[exception.ServiceID][day]
		switch exception.ExceptionType {
		case 1:
			types.add = true
			hasAdd[exception.ServiceID] = true
		case 2:
			types.remove = true
			hasRemove[exception.ServiceID] = true
		}
		perServiceDay[exception.ServiceID][day] = types

		rowCounts[exception.ServiceID]++
	}

	for serviceID, days := range perServiceDay {
		removeOnly := hasRemove[serviceID] && !hasAdd[serviceID]

		if removeOnly && rowCounts[serviceID] <= sparseRemoveRowThreshold {
			// occasional blackout dates for an otherwise regular service
			for day := 0; day < 7; day++ {
				addDay(serviceID, day)
			}
			continue
		}

		selected := map[int]bool{}
		for day := 0; day < 7; day++ {
			types := days[day]
			if hasRemove[serviceID] {
				if types.remove {
					selected[day] = true
				}
			} else if types.add {
				selected[day] = true
			}
		}

		if hasRemove[serviceID] {
			// keep the weekend balanced when only one weekend day shows up
			if selected[6] && !selected[5] {
				selected[5] = true
			}
			if selected[5] && !selected[6] {
				selected[6] = true
			}
		}

		for day := range selected {
			addDay(serviceID, day)
		}
	}
}
