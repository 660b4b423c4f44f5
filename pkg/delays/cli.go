package delays

import (
	"context"

	"github.com/babitron/trainboard/pkg/config"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "delays",
		Usage: "Live delay feed tools",
		Subcommands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "scrape the status pages once and dump the normalized records",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to the configuration file",
					},
				},
				Action: func(c *cli.Context) error {
					if err := config.Load(c.String("config")); err != nil {
						return err
					}

					scraper := NewScraper(config.Config.Delays)
					records := scraper.Fetch(context.Background())

					pretty.Println(records)
					log.Info().Int("records", len(records)).Msg("Scrape complete")

					return nil
				},
			},
		},
	}
}
