package config

import (
	"os"

	"github.com/babitron/trainboard/pkg/util"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Delays DelaysConfig `yaml:"delays"`

	Timetable TimetableConfig `yaml:"timetable"`
}

type ServerConfig struct {
	Listen string `yaml:"listen" validate:"required"`
}

type DelaysConfig struct {
	Sources []DelaySourceConfig `yaml:"sources"`

	CacheTTLSeconds int `yaml:"cache_ttl_seconds" validate:"gte=0"`
}

type DelaySourceConfig struct {
	// Page is the provenance tag attached to every record scraped from this source
	Page string `yaml:"page" validate:"required"`
	URL  string `yaml:"url" validate:"required,url"`
}

type TimetableConfig struct {
	GTFSPath string `yaml:"gtfs_path"`

	FromStop  string `yaml:"from_stop"`
	ToStop    string `yaml:"to_stop"`
	FromLabel string `yaml:"from_label"`
	ToLabel   string `yaml:"to_label"`
}

func defaults() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Listen: ":8080",
		},
		Delays: DelaysConfig{
			Sources: []DelaySourceConfig{
				{Page: "zponline", URL: "https://provoz.spravazeleznic.cz/tabule/Pages/TrainsDelay.aspx?tabule=zponline"},
				{Page: "zponlineos", URL: "https://provoz.spravazeleznic.cz/tabule/Pages/TrainsDelay.aspx?tabule=zponlineos"},
			},
			CacheTTLSeconds: 60,
		},
		Timetable: TimetableConfig{
			FromStop:  "ST_44120",
			ToStop:    "ST_44121",
			FromLabel: "Doubravka",
			ToLabel:   "Hlavní nádraží",
		},
	}
}

// Load reads the yaml configuration file into the global Config, applying
// defaults and environment variable overrides. A missing file is not an error -
// the defaults describe a fully working setup.
func Load(path string) error {
	cfg := defaults()

	if path == "" {
		path = "trainboard.yml"
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	applyEnvironmentOverrides(&cfg)

	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return err
	}
	for _, source := range cfg.Delays.Sources {
		if err := v.Struct(source); err != nil {
			return err
		}
	}

	Config = cfg

	return nil
}

func applyEnvironmentOverrides(cfg *AppConfig) {
	env := util.GetEnvironmentVariables()

	if env["TRAINBOARD_LISTEN"] != "" {
		cfg.Server.Listen = env["TRAINBOARD_LISTEN"]
	}
	if env["TRAINBOARD_GTFS_PATH"] != "" {
		cfg.Timetable.GTFSPath = env["TRAINBOARD_GTFS_PATH"]
	}
	if env["TRAINBOARD_DELAYS_ENDPOINT"] != "" {
		cfg.Delays.Sources = []DelaySourceConfig{
			{Page: "zponline", URL: env["TRAINBOARD_DELAYS_ENDPOINT"]},
		}
	}
}
