package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	envDSN           = "BETLEDGER_DSN"
	envLogLevel      = "BETLEDGER_LOG_LEVEL"
	envLogEncoding   = "BETLEDGER_LOG_ENCODING"
	envHTTPAddr      = "BETLEDGER_HTTP_ADDR"
	envDictionary    = "BETLEDGER_DICTIONARY"
	envChromeProfile = "BETLEDGER_CHROME_PROFILE"
	envWorkers       = "BETLEDGER_WORKERS"
)

type LogConfig struct {
	Level    string
	Encoding string
}

type Config struct {
	DSN  string
	Log  LogConfig
	Addr string
	// Dictionary is a YAML file replacing the embedded team dictionary.
	Dictionary    string
	ChromeProfile string
	Workers       int
}

func defaults() Config {
	return Config{
		Log:     LogConfig{Level: "info", Encoding: "json"},
		Addr:    ":8080",
		Workers: 3,
	}
}

// Load reads an optional .env file at path and then the process environment.
// A missing file is not an error.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	cfg := defaults()

	if v, ok := os.LookupEnv(envDSN); ok {
		cfg.DSN = v
	}
	if v, ok := os.LookupEnv(envLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv(envLogEncoding); ok && v != "" {
		cfg.Log.Encoding = v
	}
	if v, ok := os.LookupEnv(envHTTPAddr); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv(envDictionary); ok {
		cfg.Dictionary = v
	}
	if v, ok := os.LookupEnv(envChromeProfile); ok {
		cfg.ChromeProfile = v
	}
	if v, ok := os.LookupEnv(envWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid %s %q: must be a positive integer", envWorkers, v)
		}
		cfg.Workers = n
	}

	return cfg, nil
}
