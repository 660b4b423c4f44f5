package main

import (
	"os"
	"time"

	"github.com/babitron/trainboard/pkg/api"
	"github.com/babitron/trainboard/pkg/delays"
	"github.com/babitron/trainboard/pkg/timetable"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRAINBOARD_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRAINBOARD_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "trainboard",
		Description: "Single binary of truth for Trainboard - runs all the services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			delays.RegisterCLI(),
			timetable.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
