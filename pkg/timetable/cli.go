package timetable

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/babitron/trainboard/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "timetable",
		Usage: "Static timetable generation",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "generate HTML and/or JSON timetables between two adjacent stops",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "path to the configuration file"},
					&cli.StringFlag{Name: "gtfs-path", Usage: "path to the GTFS zip/directory"},
					&cli.StringFlag{Name: "from-stop", Usage: "source stop_id"},
					&cli.StringFlag{Name: "to-stop", Usage: "target stop_id"},
					&cli.StringFlag{Name: "from-label", Usage: "human label used for output titles/files"},
					&cli.StringFlag{Name: "to-label", Usage: "human label used for output titles/files"},
					&cli.StringFlag{Name: "title", Usage: "custom HTML title for the forward direction"},
					&cli.StringFlag{Name: "template-path", Usage: "optional HTML template path"},
					&cli.StringFlag{Name: "api-base", Usage: "origin of the live API the page polls"},
					&cli.StringFlag{Name: "html-out", Usage: "forward HTML output path"},
					&cli.StringFlag{Name: "json-out", Usage: "forward JSON output path"},
					&cli.BoolFlag{Name: "stdout-json", Usage: "print forward JSON timetable to stdout"},
					&cli.BoolFlag{Name: "reverse", Usage: "also generate reverse direction outputs"},
					&cli.StringFlag{Name: "reverse-title", Usage: "custom HTML title for the reverse direction"},
					&cli.StringFlag{Name: "reverse-html-out", Usage: "reverse HTML output path"},
					&cli.StringFlag{Name: "reverse-json-out", Usage: "reverse JSON output path"},
				},
				Action: generateAction,
			},
		},
	}
}

func generateAction(c *cli.Context) error {
	if err := config.Load(c.String("config")); err != nil {
		return err
	}

	settings := config.Config.Timetable
	if c.String("gtfs-path") != "" {
		settings.GTFSPath = c.String("gtfs-path")
	}
	if c.String("from-stop") != "" {
		settings.FromStop = c.String("from-stop")
	}
	if c.String("to-stop") != "" {
		settings.ToStop = c.String("to-stop")
	}
	if c.String("from-label") != "" {
		settings.FromLabel = c.String("from-label")
	}
	if c.String("to-label") != "" {
		settings.ToLabel = c.String("to-label")
	}

	if settings.GTFSPath == "" {
		return fmt.Errorf("no GTFS feed configured, use --gtfs-path")
	}

	templateOverride := ""
	if templatePath := c.String("template-path"); templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return err
		}
		templateOverride = string(data)
	}

	schedule, err := LoadSchedule(settings.GTFSPath)
	if err != nil {
		return err
	}

	log.Info().Str("from", settings.FromStop).Str("to", settings.ToStop).Msg("Building forward timetable")
	forward := schedule.BuildTimetable(settings.FromStop, settings.ToStop)

	forwardTitle := c.String("title")
	if forwardTitle == "" {
		forwardTitle = fmt.Sprintf("%s - %s", settings.FromLabel, settings.ToLabel)
	}

	htmlOut := c.String("html-out")
	if htmlOut == "" {
		htmlOut = defaultOutputName(settings.FromLabel, settings.ToLabel)
	}

	// default behaviour writes the forward HTML unless another output was
	// explicitly requested
	if c.String("html-out") != "" || (c.String("json-out") == "" && !c.Bool("stdout-json") && !c.Bool("reverse")) {
		if err := writeHTML(forward, forwardTitle, c.String("api-base"), templateOverride, htmlOut); err != nil {
			return err
		}
	}

	if jsonOut := c.String("json-out"); jsonOut != "" {
		if err := writeJSON(forward, jsonOut); err != nil {
			return err
		}
	}

	if c.Bool("stdout-json") {
		payload, err := json.MarshalIndent(forward.Payload(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
	}

	if c.Bool("reverse") {
		log.Info().Str("from", settings.ToStop).Str("to", settings.FromStop).Msg("Building reverse timetable")
		reverse := schedule.BuildTimetable(settings.ToStop, settings.FromStop)

		reverseTitle := c.String("reverse-title")
		if reverseTitle == "" {
			reverseTitle = fmt.Sprintf("%s - %s", settings.ToLabel, settings.FromLabel)
		}

		reverseHTMLOut := c.String("reverse-html-out")
		if reverseHTMLOut == "" {
			reverseHTMLOut = defaultOutputName(settings.ToLabel, settings.FromLabel)
		}

		if err := writeHTML(reverse, reverseTitle, c.String("api-base"), templateOverride, reverseHTMLOut); err != nil {
			return err
		}

		if reverseJSONOut := c.String("reverse-json-out"); reverseJSONOut != "" {
			if err := writeJSON(reverse, reverseJSONOut); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeHTML(t *Timetable, title string, apiBase string, templateOverride string, path string) error {
	page, err := t.RenderHTML(title, apiBase, templateOverride)
	if err != nil {
		return err
	}

	if err := writeFile(path, []byte(page)); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("Wrote HTML timetable")

	return nil
}

func writeJSON(t *Timetable, path string) error {
	payload, err := json.MarshalIndent(t.Payload(), "", "  ")
	if err != nil {
		return err
	}

	if err := writeFile(path, payload); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("Wrote JSON timetable")

	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0o644)
}

var slugRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func slugify(value string) string {
	slug := strings.Trim(slugRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "_"), "_")
	if slug == "" {
		return "timetable"
	}

	return slug
}

func defaultOutputName(fromLabel string, toLabel string) string {
	return fmt.Sprintf("%s_%s.html", slugify(fromLabel), slugify(toLabel))
}
