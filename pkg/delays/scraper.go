package delays

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/babitron/trainboard/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/net/html"
)

// Source is one live-status page to scrape.
type Source struct {
	Page SourcePage
	URL  string
}

type Scraper struct {
	Sources []Source
	Client  *http.Client
}

func NewScraper(cfg config.DelaysConfig) *Scraper {
	scraper := &Scraper{
		Client: &http.Client{Timeout: 30 * time.Second},
	}

	for _, source := range cfg.Sources {
		scraper.Sources = append(scraper.Sources, Source{
			Page: SourcePage(source.Page),
			URL:  source.URL,
		})
	}

	return scraper
}

// Fetch scrapes every configured status page and merges the rows into a fresh
// RecordSet. Pages are fetched concurrently but ingested in configuration
// order, so the last-write-wins policy across pages stays deterministic. A
// failing page degrades to zero rows rather than failing the cycle.
func (s *Scraper) Fetch(ctx context.Context) RecordSet {
	pageRows := make([][]RawRow, len(s.Sources))

	p := pool.New().WithMaxGoroutines(len(s.Sources) + 1)
	for index, source := range s.Sources {
		p.Go(func() {
			rows, err := s.fetchSource(ctx, source)
			if err != nil {
				log.Error().Err(err).Str("page", string(source.Page)).Msg("Failed to scrape delay page")
				return
			}

			pageRows[index] = rows
		})
	}
	p.Wait()

	records := RecordSet{}
	for index, source := range s.Sources {
		records.IngestRows(pageRows[index], source.Page)
	}

	log.Debug().Int("records", len(records)).Msg("Scrape cycle complete")

	return records
}

func (s *Scraper) fetchSource(ctx context.Context, source Source) ([]RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", source.URL, nil)
	if err != nil {
		return nil, err
	}
	// the status pages refuse requests without a browser-looking user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) Gecko/20100101 Firefox/125.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return ParseStatusTable(resp.Body)
}

// ParseStatusTable extracts the rows of the first status table in an HTML
// document. Cells are reduced to their text content; rows with fewer than six
// cells (headers, separators, decorative rows) are skipped.
func ParseStatusTable(reader io.Reader) ([]RawRow, error) {
	document, err := html.Parse(reader)
	if err != nil {
		return nil, err
	}

	var rows []RawRow

	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "tr" {
			cells := collectCells(node)
			if len(cells) >= 6 {
				rows = append(rows, RawRow{
					TrainInfo:           cells[0],
					Name:                cells[1],
					Route:               cells[2],
					Station:             cells[3],
					ScheduledActualTime: cells[4],
					DelayText:           cells[5],
				})
			}
			return
		}

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(document)

	return rows, nil
}

func collectCells(row *html.Node) []string {
	var cells []string

	for child := row.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "td" {
			cells = append(cells, nodeText(child))
		}
	}

	return cells
}

func nodeText(node *html.Node) string {
	var builder strings.Builder

	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
			builder.WriteString(" ")
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)

	return strings.Join(strings.Fields(builder.String()), " ")
}
