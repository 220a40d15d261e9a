package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "VTV_"

// loadDotEnv exports the variables of path into the process environment.
// Variables already set win; a missing file is not an error.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays cfg with VTV_* environment variables. Malformed numbers,
// booleans or durations panic, like malformed flags.
func parseEnv(cfg *Config) {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	str("API_URL", &cfg.APIBaseURL)
	str("API_VERSION", &cfg.APIVersion)
	str("STORE_DRIVER", &cfg.StoreDriver)
	str("STORE_PATH", &cfg.StorePath)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	str("REDIS_PREFIX", &cfg.RedisPrefix)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	if v, ok := os.LookupEnv(envPrefix + "REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := os.LookupEnv(envPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.RedisDB = n
	}
	if v, ok := os.LookupEnv(envPrefix + "WATCH_SESSION"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.WatchSession = b
	}
}
