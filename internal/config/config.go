// Package config provides functionality for managing configuration options
// for the client using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// DefaultBaseURL is the hosted Japa backend.
const DefaultBaseURL = "https://japa-lfgw.onrender.com"

// Store drivers accepted by the session store.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreFile     = "file"
)

// Options holds the configuration values for the client.
type Options struct {
	// BaseURL is the backend root every endpoint is resolved against.
	BaseURL string `json:"base_url"`

	// Store selects the session backing store: sqlite, postgres or file.
	Store string `json:"store"`

	// StoreDSN is the sqlite file, postgres connection string or JSON file path.
	StoreDSN string `json:"store_dsn"`

	// CAFile optionally adds a CA bundle trusted by the HTTP client.
	CAFile string `json:"ca_file"`

	// Timeout bounds a single HTTP request. Zero means no client timeout.
	Timeout time.Duration `json:"-"`

	// TimeoutStr is the JSON form of Timeout, e.g. "30s".
	TimeoutStr string `json:"timeout"`

	// LogLevel is a zap level name.
	LogLevel string `json:"log_level"`

	// SplashStep is the duration of each splash phase (fade-in, hold, fade-out).
	SplashStep time.Duration `json:"-"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// RegisterFlags binds the options to fs and sets default values.
func (o *Options) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.BaseURL, "url", DefaultBaseURL, "backend base URL")
	fs.StringVar(&o.Store, "store", StoreSQLite, "session store: sqlite | postgres | file")
	fs.StringVar(&o.StoreDSN, "dsn", "japa-session.db", "session store DSN or file path")
	fs.StringVar(&o.CAFile, "ca", "", "path to an extra CA certificate")
	fs.DurationVar(&o.Timeout, "timeout", 60*time.Second, "HTTP request timeout")
	fs.StringVar(&o.LogLevel, "log-level", "warn", "log level: debug | info | warn | error")
	fs.DurationVar(&o.SplashStep, "splash", time.Second, "duration of each splash phase")
	fs.StringVarP(&o.Config, "config", "c", "config.json", "path to config file")
}

// Load applies the config file and environment variables on top of the
// flag values. Values in the file override flag defaults, environment
// variables override both.
func (o *Options) Load() error {
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}

	if o.Config != "" {
		if _, err := os.Stat(o.Config); err == nil {
			data, err := os.ReadFile(o.Config)
			if err != nil {
				return fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, o); err != nil {
				return fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if v := os.Getenv("JAPA_BASE_URL"); v != "" {
		o.BaseURL = v
	}
	if v := os.Getenv("JAPA_STORE"); v != "" {
		o.Store = v
	}
	if v := os.Getenv("JAPA_STORE_DSN"); v != "" {
		o.StoreDSN = v
	}
	if v := os.Getenv("JAPA_LOG_LEVEL"); v != "" {
		o.LogLevel = v
	}
	if v := os.Getenv("JAPA_TIMEOUT"); v != "" {
		o.TimeoutStr = v
	}

	if o.TimeoutStr != "" {
		d, err := time.ParseDuration(o.TimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", o.TimeoutStr, err)
		}
		o.Timeout = d
	}

	switch o.Store {
	case StoreSQLite, StorePostgres, StoreFile:
	default:
		return fmt.Errorf("unknown store %q", o.Store)
	}
	return nil
}
