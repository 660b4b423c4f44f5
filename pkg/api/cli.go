package api

import (
	"fmt"
	"time"

	"github.com/babitron/trainboard/pkg/config"
	"github.com/babitron/trainboard/pkg/delays"
	"github.com/babitron/trainboard/pkg/redis_client"
	"github.com/babitron/trainboard/pkg/timetable"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Provides the live departure board API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to the configuration file",
					},
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, overrides the configuration",
					},
				},
				Action: func(c *cli.Context) error {
					if err := config.Load(c.String("config")); err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}

					if config.Config.Timetable.GTFSPath == "" {
						return fmt.Errorf("no GTFS feed configured")
					}

					schedule, err := timetable.LoadSchedule(config.Config.Timetable.GTFSPath)
					if err != nil {
						return err
					}

					board := schedule.BuildTimetable(
						config.Config.Timetable.FromStop,
						config.Config.Timetable.ToStop,
					)

					log.Info().
						Str("from", config.Config.Timetable.FromStop).
						Str("to", config.Config.Timetable.ToStop).
						Msg("Built static timetable")

					scraper := delays.NewScraper(config.Config.Delays)
					delayCache := delays.NewCache(
						scraper,
						redis_client.Client,
						time.Duration(config.Config.Delays.CacheTTLSeconds)*time.Second,
					)

					listen := config.Config.Server.Listen
					if c.String("listen") != "" {
						listen = c.String("listen")
					}

					return SetupServer(listen, Dependencies{
						DelayCache: delayCache,
						Timetable:  board,
					})
				},
			},
		},
	}
}
