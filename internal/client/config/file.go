package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/vtvclient/internal/flagx"
	"github.com/dmitrijs2005/vtvclient/internal/timex"
)

// FileConfig is a DTO used exclusively for file unmarshalling. Pointer
// fields distinguish "absent" from zero values so a file only overrides
// what it mentions. Durations go through timex.Duration, so "10s" and
// integer nanoseconds both work.
type FileConfig struct {
	APIBaseURL     *string         `json:"api_base_url" yaml:"api_base_url"`
	APIVersion     *string         `json:"api_version" yaml:"api_version"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`

	Store *struct {
		Driver        *string `json:"driver" yaml:"driver"`
		Path          *string `json:"path" yaml:"path"`
		RedisAddr     *string `json:"redis_addr" yaml:"redis_addr"`
		RedisPassword *string `json:"redis_password" yaml:"redis_password"`
		RedisDB       *int    `json:"redis_db" yaml:"redis_db"`
		RedisPrefix   *string `json:"redis_prefix" yaml:"redis_prefix"`
	} `json:"store" yaml:"store"`

	Log *struct {
		Level  *string `json:"level" yaml:"level"`
		Format *string `json:"format" yaml:"format"`
	} `json:"log" yaml:"log"`

	WatchSession *bool `json:"watch_session" yaml:"watch_session"`
}

// parseFile overlays cfg with the file named by -c or -config. Files ending
// in .yaml or .yml are read as YAML, everything else as JSON. Read or decode
// errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	set(&cfg.APIBaseURL, fc.APIBaseURL)
	set(&cfg.APIVersion, fc.APIVersion)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if s := fc.Store; s != nil {
		set(&cfg.StoreDriver, s.Driver)
		set(&cfg.StorePath, s.Path)
		set(&cfg.RedisAddr, s.RedisAddr)
		set(&cfg.RedisPassword, s.RedisPassword)
		set(&cfg.RedisDB, s.RedisDB)
		set(&cfg.RedisPrefix, s.RedisPrefix)
	}
	if l := fc.Log; l != nil {
		set(&cfg.LogLevel, l.Level)
		set(&cfg.LogFormat, l.Format)
	}
	set(&cfg.WatchSession, fc.WatchSession)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
