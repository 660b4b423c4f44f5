package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceDaysFromCalendar(t *testing.T) {
	schedule := &Schedule{
		Calendars: []Calendar{
			{ServiceID: "weekday", Monday: 1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1},
			{ServiceID: "weekend", Saturday: 1, Sunday: 1},
		},
	}

	serviceDays := schedule.ServiceDays()

	require.Contains(t, serviceDays, "weekday")
	assert.True(t, serviceDays["weekday"][0])
	assert.True(t, serviceDays["weekday"][4])
	assert.False(t, serviceDays["weekday"][5])

	assert.True(t, serviceDays["weekend"][5])
	assert.True(t, serviceDays["weekend"][6])
	assert.False(t, serviceDays["weekend"][0])
}

func TestServiceDaysInferredFromAddExceptions(t *testing.T) {
	// 20240101 is a Monday
	schedule := &Schedule{
		CalendarDates: []CalendarDate{
			{ServiceID: "mondays", Date: "20240101", ExceptionType: 1},
			{ServiceID: "mondays", Date: "20240108", ExceptionType: 1},
			{ServiceID: "mondays", Date: "20240115", ExceptionType: 1},
		},
	}

	serviceDays := schedule.ServiceDays()

	assert.True(t, serviceDays["mondays"][0])
	assert.False(t, serviceDays["mondays"][1])
	assert.False(t, serviceDays["mondays"][5])
}

func TestServiceDaysSparseRemovalsMeanDaily(t *testing.T) {
	// a handful of blackout dates on an otherwise daily service
	schedule := &Schedule{
		CalendarDates: []CalendarDate{
			{ServiceID: "daily", Date: "20241224", ExceptionType: 2},
			{ServiceID: "daily", Date: "20241225", ExceptionType: 2},
		},
	}

	serviceDays := schedule.ServiceDays()

	for day := 0; day < 7; day++ {
		assert.True(t, serviceDays["daily"][day], "day %d", day)
	}
}

func TestServiceDaysRemovalsImplyRegularDays(t *testing.T) {
	// many removals naming only weekdays: the service regularly runs on the
	// weekdays those removals name
	exceptions := []CalendarDate{}
	// 20240101..20240105 is Monday..Friday, repeated over several weeks
	for _, date := range []string{
		"20240101", "20240102", "20240103", "20240104", "20240105",
		"20240108", "20240109", "20240110", "20240111", "20240112",
	} {
		exceptions = append(exceptions, CalendarDate{ServiceID: "workdays", Date: date, ExceptionType: 2})
	}

	schedule := &Schedule{CalendarDates: exceptions}
	serviceDays := schedule.ServiceDays()

	for day := 0; day < 5; day++ {
		assert.True(t, serviceDays["workdays"][day], "day %d", day)
	}
	assert.False(t, serviceDays["workdays"][5])
	assert.False(t, serviceDays["workdays"][6])
}

func TestServiceDaysWeekendCompleted(t *testing.T) {
	// removals naming only Sundays: the weekend is completed since services
	// rarely run exactly one weekend day
	exceptions := []CalendarDate{}
	// 20240107, 20240114, ... are Sundays
	for _, date := range []string{
		"20240107", "20240114", "20240121", "20240128",
		"20240204", "20240211", "20240218", "20240225",
	} {
		exceptions = append(exceptions, CalendarDate{ServiceID: "weekend", Date: date, ExceptionType: 2})
	}

	schedule := &Schedule{CalendarDates: exceptions}
	serviceDays := schedule.ServiceDays()

	assert.True(t, serviceDays["weekend"][6])
	assert.True(t, serviceDays["weekend"][5])
	assert.False(t, serviceDays["weekend"][0])
}

func TestServiceDaysUncoveredServiceVisibleEveryDay(t *testing.T) {
	schedule := &Schedule{
		Trips: []Trip{
			{ID: "t1", ServiceID: "orphan"},
		},
		CalendarDates: []CalendarDate{
			{ServiceID: "other", Date: "20240101", ExceptionType: 1},
		},
	}

	serviceDays := schedule.ServiceDays()

	for day := 0; day < 7; day++ {
		assert.True(t, serviceDays["orphan"][day], "day %d", day)
	}
}
