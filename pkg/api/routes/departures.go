package routes

import (
	"fmt"
	"strconv"
	"time"

	"github.com/babitron/trainboard/pkg/delays"
	"github.com/babitron/trainboard/pkg/matcher"
	"github.com/babitron/trainboard/pkg/timetable"
	"github.com/babitron/trainboard/pkg/util"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	iso8601 "github.com/senseyeio/duration"
)

// departureLookbackMinutes keeps just-departed trains on the board for a short
// while, since a delayed train may still be standing at the platform.
const departureLookbackMinutes = 5

const defaultDepartureCount = 6

func DeparturesRouter(router fiber.Router, board *timetable.Timetable, delayCache *delays.Cache) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getDepartures(c, board, delayCache)
	})
	router.Get("/board", func(c *fiber.Ctx) error {
		return getDepartureBoard(c, board, delayCache)
	})
}

// departureEntry is one upcoming departure annotated with its match outcome.
type departureEntry struct {
	Departure timetable.Departure `json:"departure" groups:"basic,detailed"`
	Match     matcher.MatchResult `json:"match" groups:"basic,detailed"`
	Label     string              `json:"label" groups:"basic,detailed"`

	DepartsAt time.Time `json:"departs_at" groups:"detailed"`
}

func getDepartures(c *fiber.Ctx, board *timetable.Timetable, delayCache *delays.Cache) error {
	count, err := strconv.Atoi(c.Query("count", strconv.Itoa(defaultDepartureCount)))
	if err != nil || count < 1 {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter count should be a positive integer",
		})
	}

	now := time.Now()
	if datetimeString := c.Query("datetime"); datetimeString != "" {
		now, err = time.Parse(time.RFC3339, datetimeString)

		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter datetime should be an RFC3339/ISO8601 datetime",
			})
		}
	}

	// tomorrow starts at midnight after shifting the current datetime by 1 day
	nextDayDuration, _ := iso8601.ParseISO8601("P1D")
	dayAfterDateTime := nextDayDuration.Shift(now)
	dayAfterDateTime = time.Date(
		dayAfterDateTime.Year(), dayAfterDateTime.Month(), dayAfterDateTime.Day(), 0, 0, 0, 0, dayAfterDateTime.Location(),
	)

	nowMinutes := now.Hour()*60 + now.Minute()

	todayDay := board.Buckets[timetable.ActiveBucket(now)]
	tomorrowDay := board.Buckets[timetable.ActiveBucket(dayAfterDateTime)]

	var todayDepartures []timetable.Departure
	for _, departure := range todayDay.Departures {
		if departure.DayMinutes() >= nowMinutes-departureLookbackMinutes {
			todayDepartures = append(todayDepartures, departure)
		}
	}
	if len(todayDepartures) > count {
		todayDepartures = todayDepartures[:count]
	}

	// top up from the start of tomorrows bucket once today runs out of trains
	var tomorrowDepartures []timetable.Departure
	if remaining := count - len(todayDepartures); remaining > 0 {
		tomorrowDepartures = tomorrowDay.Departures
		if len(tomorrowDepartures) > remaining {
			tomorrowDepartures = tomorrowDepartures[:remaining]
		}
	}

	recordMatcher := matcher.New(delayCache.Get(c.Context()))

	todayResults := recordMatcher.MatchAll(todayDepartures, true)
	tomorrowResults := recordMatcher.MatchAll(tomorrowDepartures, false)

	entries := make([]departureEntry, 0, len(todayResults)+len(tomorrowResults))
	entries = append(entries, buildEntries(todayDepartures, todayResults, now)...)
	entries = append(entries, buildEntries(tomorrowDepartures, tomorrowResults, dayAfterDateTime)...)

	allDepartures := append(append([]timetable.Departure{}, todayDepartures...), tomorrowDepartures...)
	allResults := append(append([]matcher.MatchResult{}, todayResults...), tomorrowResults...)

	entriesReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{requestedGroup(c)},
	}, entries)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce departures",
		})
	}

	return c.JSON(fiber.Map{
		"day":        timetable.ActiveBucket(now),
		"departures": entriesReduced,
		"telemetry":  matcher.Summarize(allDepartures, allResults),
	})
}

func buildEntries(departures []timetable.Departure, results []matcher.MatchResult, day time.Time) []departureEntry {
	entries := make([]departureEntry, 0, len(departures))

	for index, departure := range departures {
		result := results[index]

		entry := departureEntry{
			Departure: departure,
			Match:     result,
			Label:     matcher.StatusLabel(result),
		}

		if departureTime, err := time.Parse("15:04:05", departure.DepartureTime); err == nil {
			entry.DepartsAt = util.AddTimeToDate(day, departureTime)
		}

		entries = append(entries, entry)
	}

	return entries
}

// getDepartureBoard annotates the compact hour/minute chip view of the active
// day. Only unanimous high-confidence statuses make it onto a chip.
func getDepartureBoard(c *fiber.Ctx, board *timetable.Timetable, delayCache *delays.Cache) error {
	now := time.Now()
	day := board.Buckets[timetable.ActiveBucket(now)]

	recordMatcher := matcher.New(delayCache.Get(c.Context()))
	results := recordMatcher.MatchAll(day.Departures, true)

	annotations, candidateMinutes := matcher.AnnotateMinutes(day.Departures, results)

	keyedAnnotations := map[string]matcher.MinuteAnnotation{}
	for key, annotation := range annotations {
		keyedAnnotations[fmt.Sprintf("%d:%s", key.Hour, key.Minute)] = annotation
	}

	return c.JSON(fiber.Map{
		"day":               timetable.ActiveBucket(now),
		"annotations":       keyedAnnotations,
		"candidate_minutes": candidateMinutes,
		"annotated_minutes": len(keyedAnnotations),
		"telemetry":         matcher.Summarize(day.Departures, results),
	})
}
