package config

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/klokku/workload/internal/event_bus"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "WORKLOAD_"

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Database Database `koanf:"db"`
	Workload Workload `koanf:"workload"`
}

type Database struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Pass     string `koanf:"pass"`
	Name     string `koanf:"name"`
	Schema   string `koanf:"schema"`
	MaxConns int32  `koanf:"maxconns"`
}

// Workload holds the settings the allocation engine reads: non-working weekday ordinals
// (1=Monday..7=Sunday) and the daily load thresholds in hours.
type Workload struct {
	NonWorkingWeekdays []int      `koanf:"nonworkingweekdays"`
	Thresholds         Thresholds `koanf:"thresholds"`
}

type Thresholds struct {
	LowMin    float64 `koanf:"lowmin"`
	NormalMin float64 `koanf:"normalmin"`
	HighMin   float64 `koanf:"highmin"`
}

func defaults() Application {
	return Application{
		Host: "0.0.0.0",
		Port: 8181,
		Database: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "workload",
			Pass:     "",
			Name:     "workload",
			Schema:   "workload",
			MaxConns: 25,
		},
		Workload: Workload{
			NonWorkingWeekdays: []int{6, 7},
			Thresholds: Thresholds{
				LowMin:    0.1,
				NormalMin: 7,
				HighMin:   8.5,
			},
		},
	}
}

func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Watch reloads the configuration whenever the file at path changes and publishes the
// workload section as an event_bus.SettingsUpdated event.
func Watch(path string, bus *event_bus.EventBus) error {
	f := file.Provider(path)
	return f.Watch(func(event any, err error) {
		if err != nil {
			log.Errorf("config watcher error: %v", err)
			return
		}
		cfg, err := Load(path)
		if err != nil {
			log.Errorf("failed to reload config from %s: %v", path, err)
			return
		}
		log.Infof("Configuration file %s changed, publishing workload settings", path)
		err = bus.Publish(event_bus.NewEvent(context.Background(), event_bus.SettingsUpdatedType, cfg.Workload.ToEvent()))
		if err != nil {
			log.Errorf("failed to publish settings update: %v", err)
		}
	})
}

func (w Workload) ToEvent() event_bus.SettingsUpdated {
	return event_bus.SettingsUpdated{
		NonWorkingWeekdays: append([]int(nil), w.NonWorkingWeekdays...),
		LowMin:             w.Thresholds.LowMin,
		NormalMin:          w.Thresholds.NormalMin,
		HighMin:            w.Thresholds.HighMin,
	}
}
