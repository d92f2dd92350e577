package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "ARTCAL_"

type Application struct {
	Listen   string   `koanf:"listen"`
	Timezone string   `koanf:"timezone"`
	Calendar Calendar `koanf:"calendar"`
	Database Database `koanf:"db"`
}

type Calendar struct {
	MaxVisible   int    `koanf:"maxvisible"`
	AgendaDays   int    `koanf:"agendadays"`
	DefaultColor string `koanf:"defaultcolor"`
	WeekStart    string `koanf:"weekstart"`
	Workers      int    `koanf:"workers"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func defaults() Application {
	return Application{
		Listen:   ":8181",
		Timezone: "UTC",
		Calendar: Calendar{
			MaxVisible:   3,
			AgendaDays:   30,
			DefaultColor: "#3788d8",
			WeekStart:    "monday",
			Workers:      4,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "artcal",
			Pass:   "",
			Name:   "artcal",
			Schema: "artcal",
		},
	}
}

func Load(path string) (Application, error) {
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
			// ARTCAL_CALENDAR_MAXVISIBLE -> calendar.maxvisible
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
	if _, err := app.Location(); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Location resolves the configured site timezone.
func (a Application) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}
