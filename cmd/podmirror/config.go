package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/podmirror"
	"github.com/pelletier/go-toml/v2"
)

// Config is the TOML configuration file format.
//
//	data_dir = "data"
//	output = "aggregated.json"
//	db = "podmirror.db"
//	interval = "6h"
//	rps = 1.0
//	timeout = "10s"
//
//	[[server]]
//	name = "local-8000"
//	url = "http://localhost:8000/"
type Config struct {
	DataDir  string             `toml:"data_dir"`
	Output   string             `toml:"output"`
	DB       string             `toml:"db"`
	Interval string             `toml:"interval"`
	RPS      float64            `toml:"rps"`
	Timeout  string             `toml:"timeout"`
	Servers  []podmirror.Server `toml:"server"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		DataDir:  "data",
		Output:   "aggregated.json",
		DB:       "podmirror.db",
		Interval: "6h",
		RPS:      1.0,
		Timeout:  "10s",
	}
}

// LoadConfig reads a TOML config file, layering it over the defaults.
// A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	for i := range cfg.Servers {
		if err := cfg.Servers[i].Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: server %d: %w", path, i, err)
		}
	}
	return cfg, nil
}

// IntervalDuration parses the crawl interval.
func (c Config) IntervalDuration() (time.Duration, error) {
	return time.ParseDuration(c.Interval)
}

// TimeoutDuration parses the fetch timeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(c.Timeout)
}
