// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"strconv"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	Addr        string
	DataDir     string
	LocalesDir  string
	DefaultLang string
	LogFormat   string
	Telemetry   bool
}

// Defaults used when a variable is unset or empty.
const (
	DefaultAddr     = ":8080"
	DefaultDataDir  = "./data"
	DefaultLanguage = "en"
	DefaultLogFmt   = "json"
)

// Load reads the CALC_* variables through lookup, normally os.LookupEnv.
func Load(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Addr:        get("CALC_ADDR", DefaultAddr),
		DataDir:     get("CALC_DATA_DIR", DefaultDataDir),
		LocalesDir:  get("CALC_LOCALES_DIR", ""),
		DefaultLang: get("CALC_DEFAULT_LANG", DefaultLanguage),
		LogFormat:   get("CALC_LOG_FORMAT", DefaultLogFmt),
		Telemetry:   true,
	}

	if v := get("CALC_TELEMETRY", ""); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("CALC_TELEMETRY: %w", err)
		}
		cfg.Telemetry = on
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		return Config{}, fmt.Errorf("CALC_LOG_FORMAT: unsupported format %q", cfg.LogFormat)
	}

	return cfg, nil
}
