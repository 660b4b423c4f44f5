package timetable

import (
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gtfsFixture = map[string]string{
	"routes.txt": `route_id,route_short_name,route_long_name
r1,P2,Beroun - Plzeň hl.n.`,
	"trips.txt": `route_id,service_id,trip_id,trip_short_name
r1,weekday,t1,Os 7806`,
	"stop_times.txt": `trip_id,stop_id,stop_sequence,departure_time
t1,ST_44120,1,10:14:00
t1,ST_44121,2,10:20:00`,
	"calendar.txt": `service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday
weekday,1,1,1,1,1,0,0`,
}

func writeGTFSDirectory(t *testing.T, tables map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range tables {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return dir
}

func TestLoadScheduleFromDirectory(t *testing.T) {
	schedule, err := LoadSchedule(writeGTFSDirectory(t, gtfsFixture))
	require.NoError(t, err)

	require.Len(t, schedule.Routes, 1)
	assert.Equal(t, "P2", schedule.Routes[0].ShortName)

	require.Len(t, schedule.Trips, 1)
	assert.Equal(t, "Os 7806", schedule.Trips[0].Name)

	require.Len(t, schedule.StopTimes, 2)
	assert.Equal(t, 1, schedule.StopTimes[0].StopSequence)

	require.Len(t, schedule.Calendars, 1)
	assert.EqualValues(t, 1, schedule.Calendars[0].Monday)
	assert.EqualValues(t, 0, schedule.Calendars[0].Saturday)
}

func TestLoadScheduleFromZip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "gtfs.zip")

	file, err := os.Create(archivePath)
	require.NoError(t, err)

	writer := zip.NewWriter(file)
	for name, content := range gtfsFixture {
		member, err := writer.Create("feed/" + name)
		require.NoError(t, err)
		_, err = member.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())

	schedule, err := LoadSchedule(archivePath)
	require.NoError(t, err)
	assert.Len(t, schedule.StopTimes, 2)
}

func TestLoadScheduleGzippedTable(t *testing.T) {
	tables := map[string]string{}
	for name, content := range gtfsFixture {
		tables[name] = content
	}

	dir := writeGTFSDirectory(t, tables)

	// replace stop_times.txt with a gzipped variant
	stopTimes := tables["stop_times.txt"]
	require.NoError(t, os.Remove(filepath.Join(dir, "stop_times.txt")))

	compressed, err := os.Create(filepath.Join(dir, "stop_times.txt.gz"))
	require.NoError(t, err)
	gzipWriter := gzip.NewWriter(compressed)
	_, err = gzipWriter.Write([]byte(stopTimes))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())
	require.NoError(t, compressed.Close())

	schedule, err := LoadSchedule(dir)
	require.NoError(t, err)
	assert.Len(t, schedule.StopTimes, 2)
}

func TestLoadScheduleMissingRequiredTable(t *testing.T) {
	tables := map[string]string{
		"routes.txt": gtfsFixture["routes.txt"],
	}

	_, err := LoadSchedule(writeGTFSDirectory(t, tables))
	assert.Error(t, err)
}

func TestLoadScheduleRequiresCalendarData(t *testing.T) {
	tables := map[string]string{}
	for name, content := range gtfsFixture {
		if name == "calendar.txt" {
			continue
		}
		tables[name] = content
	}

	_, err := LoadSchedule(writeGTFSDirectory(t, tables))
	assert.Error(t, err)
}

func TestLoadScheduleLenientRows(t *testing.T) {
	tables := map[string]string{}
	for name, content := range gtfsFixture {
		tables[name] = content
	}
	// a trailing row with missing columns must not fail the load
	tables["routes.txt"] += "\nr2,Ex6"

	schedule, err := LoadSchedule(writeGTFSDirectory(t, tables))
	require.NoError(t, err)
	assert.Len(t, schedule.Routes, 2)
}
