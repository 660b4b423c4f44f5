package timetable

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Schedule holds the subset of GTFS tables the timetable builder needs.
type Schedule struct {
	Routes        []Route
	Trips         []Trip
	StopTimes     []StopTime
	Calendars     []Calendar
	CalendarDates []CalendarDate
}

var requiredTables = []string{"stop_times.txt", "trips.txt", "routes.txt"}
var optionalTables = []string{"calendar.txt", "calendar_dates.txt"}

// LoadSchedule reads a GTFS feed from a directory or a zip archive. Gzipped
// table members (stop_times.txt.gz) are handled transparently - the merged
// regional feeds ship their large tables compressed.
func LoadSchedule(path string) (*Schedule, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	schedule := &Schedule{}

	var readTable func(name string) ([]byte, error)
	if info.IsDir() {
		readTable = directoryTableReader(path)
	} else {
		archive, err := zip.OpenReader(path)
		if err != nil {
			return nil, err
		}
		defer archive.Close()

		readTable = zipTableReader(&archive.Reader)
	}

	for _, table := range append(append([]string{}, requiredTables...), optionalTables...) {
		data, err := readTable(table)
		if err != nil {
			if slices.Contains(requiredTables, table) {
				return nil, fmt.Errorf("missing GTFS table %s: %w", table, err)
			}

			log.Debug().Str("table", table).Msg("Optional GTFS table missing")
			continue
		}

		if err := schedule.parseTable(table, data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", table, err)
		}
	}

	if len(schedule.Calendars) == 0 && len(schedule.CalendarDates) == 0 {
		return nil, fmt.Errorf("GTFS feed must contain calendar.txt and/or calendar_dates.txt")
	}

	log.Debug().
		Int("routes", len(schedule.Routes)).
		Int("trips", len(schedule.Trips)).
		Int("stop_times", len(schedule.StopTimes)).
		Msg("Loaded GTFS schedule")

	return schedule, nil
}

func (s *Schedule) parseTable(table string, data []byte) error {
	switch table {
	case "routes.txt":
		return gocsv.UnmarshalBytes(data, &s.Routes)
	case "trips.txt":
		return gocsv.UnmarshalBytes(data, &s.Trips)
	case "stop_times.txt":
		return gocsv.UnmarshalBytes(data, &s.StopTimes)
	case "calendar.txt":
		return gocsv.UnmarshalBytes(data, &s.Calendars)
	case "calendar_dates.txt":
		return gocsv.UnmarshalBytes(data, &s.CalendarDates)
	}

	return nil
}

func directoryTableReader(root string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if data, err := os.ReadFile(filepath.Join(root, name+".gz")); err == nil {
			return gunzip(data)
		}

		return os.ReadFile(filepath.Join(root, name))
	}
}

func zipTableReader(archive *zip.Reader) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		member := findZipMember(archive, name)
		if member == nil {
			return nil, fmt.Errorf("no such member %s", name)
		}

		file, err := member.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}

		if strings.HasSuffix(member.Name, ".gz") {
			return gunzip(data)
		}

		return data, nil
	}
}

// findZipMember locates a table by exact name, gzipped name or as a nested
// entry - merged feeds sometimes wrap everything in a top level directory.
func findZipMember(archive *zip.Reader, name string) *zip.File {
	candidates := []string{name, name + ".gz"}

	for _, member := range archive.File {
		for _, candidate := range candidates {
			if member.Name == candidate || strings.HasSuffix(member.Name, "/"+candidate) {
				return member
			}
		}
	}

	return nil
}

func gunzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
