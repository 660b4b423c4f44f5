package timetable

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"strings"
)

//go:embed template.html
var defaultTemplate string

type renderSection struct {
	Key     string
	Heading string
	Hours   []renderHour
}

type renderHour struct {
	Hour  int
	Chips []renderChip
}

type renderChip struct {
	Hour   int
	Minute string
}

type renderData struct {
	Title       string
	Sections    []renderSection
	APIBaseJSON template.JS
}

var sectionHeadings = map[DayBucket]string{
	BucketWorkdays: "PRACOVNÍ DNY",
	BucketSaturday: "SOBOTA",
	BucketSunday:   "NEDĚLE",
}

// RenderHTML produces the static timetable page. apiBase is the origin of the
// live API the embedded script polls; empty means same origin. An empty
// templateOverride falls back to the built in template.
func (t *Timetable) RenderHTML(title string, apiBase string, templateOverride string) (string, error) {
	templateText := defaultTemplate
	if templateOverride != "" {
		templateText = templateOverride
	}

	page, err := template.New("timetable").Parse(templateText)
	if err != nil {
		return "", err
	}

	apiBaseJSON, err := json.Marshal(apiBase)
	if err != nil {
		return "", err
	}

	data := renderData{
		Title:       title,
		APIBaseJSON: template.JS(apiBaseJSON),
	}

	for _, bucket := range []DayBucket{BucketWorkdays, BucketSaturday, BucketSunday} {
		section := renderSection{
			Key:     string(bucket),
			Heading: sectionHeadings[bucket],
		}

		for _, row := range t.Buckets[bucket].SortedHours() {
			hour := renderHour{Hour: row.Hour}
			for _, minute := range row.Minutes {
				hour.Chips = append(hour.Chips, renderChip{Hour: row.Hour, Minute: minute})
			}
			section.Hours = append(section.Hours, hour)
		}

		data.Sections = append(data.Sections, section)
	}

	var builder strings.Builder
	if err := page.Execute(&builder, data); err != nil {
		return "", err
	}

	return builder.String(), nil
}
