// Package config loads service settings from an optional YAML file plus
// ROADBOOK_* environment overrides.
//
// Environment keys map onto config paths with a double underscore as the
// path separator, so single underscores stay inside key names:
// ROADBOOK_GEOCODER__BASE_URL → geocoder.base_url.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lebrazwesh/roadbook/internal/domain"
)

const (
	envPrefix       = "ROADBOOK_"
	defaultFileName = "roadbook.yaml"
)

// Config holds all service settings.
type Config struct {
	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`

	HTTP struct {
		Addr            string        `koanf:"addr"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	} `koanf:"http"`

	Geocoder struct {
		BaseURL        string        `koanf:"base_url"`
		UserAgent      string        `koanf:"user_agent"`
		Timeout        time.Duration `koanf:"timeout"`
		RequestsPerSec float64       `koanf:"requests_per_sec"`
		Retries        int           `koanf:"retries"`
		RetryDelay     time.Duration `koanf:"retry_delay"`
	} `koanf:"geocoder"`

	Cache struct {
		Path string `koanf:"path"`
	} `koanf:"cache"`

	Routing struct {
		BaseURL string        `koanf:"base_url"`
		Profile string        `koanf:"profile"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"routing"`

	Fuel domain.FuelParams `koanf:"fuel"`
}

// Default returns the configuration the desktop releases shipped with.
func Default() *Config {
	cfg := &Config{}

	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	cfg.HTTP.Addr = ":8080"
	cfg.HTTP.ShutdownTimeout = 10 * time.Second

	cfg.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	cfg.Geocoder.UserAgent = "roadbook/1.0"
	cfg.Geocoder.Timeout = 5 * time.Second
	cfg.Geocoder.RequestsPerSec = 1
	cfg.Geocoder.Retries = 3
	cfg.Geocoder.RetryDelay = time.Second

	cfg.Cache.Path = "cache/geocode_cache.json"

	cfg.Routing.BaseURL = "http://router.project-osrm.org"
	cfg.Routing.Profile = "driving"
	cfg.Routing.Timeout = 10 * time.Second

	cfg.Fuel = domain.DefaultFuelParams()

	return cfg
}

// Load builds the configuration: defaults, then the YAML file at path (or
// ./roadbook.yaml when path is empty and it exists), then ROADBOOK_*
// environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path == "" {
		if _, err := os.Stat(defaultFileName); err == nil {
			path = defaultFileName
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			key = strings.ToLower(key)
			key = strings.ReplaceAll(key, "__", ".")
			return key, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Geocoder.BaseURL == "" {
		return errors.New("geocoder.base_url is required")
	}
	if c.Geocoder.UserAgent == "" {
		return errors.New("geocoder.user_agent is required")
	}
	if c.Geocoder.Retries < 1 {
		return errors.New("geocoder.retries must be at least 1")
	}
	if c.Geocoder.RequestsPerSec <= 0 {
		return errors.New("geocoder.requests_per_sec must be positive")
	}
	if c.Routing.BaseURL == "" {
		return errors.New("routing.base_url is required")
	}
	if c.Cache.Path == "" {
		return errors.New("cache.path is required")
	}
	if c.Fuel.ConsumptionLPer100Km <= 0 {
		return errors.New("fuel.consumption_l_per_100km must be positive")
	}
	return nil
}
