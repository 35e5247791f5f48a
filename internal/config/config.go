// Package config loads the visionboard configuration.
//
// Values are read from the defaults, then the YAML file and finally
// the VB_ environment variables where `__` separates nested keys
// (e.g. VB_REDIS__URL overrides redis.url).
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix of the environment variables overriding the configuration.
const EnvPrefix = "VB_"

type (
	// A Config holds the client and server configuration.
	Config struct {
		Backend       string        `koanf:"backend"`
		DatabasePath  string        `koanf:"database_path"`
		DatabaseCodec string        `koanf:"database_codec"`
		PollInterval  time.Duration `koanf:"poll_interval"`
		Debounce      time.Duration `koanf:"debounce"`
		// Address is the listening address of visionboardd (host:port or unix:/path).
		Address   string    `koanf:"address"`
		BodyLimit string    `koanf:"body_limit"`
		Redis     Redis     `koanf:"redis"`
		Minio     Minio     `koanf:"minio"`
		Server    Server    `koanf:"server"`
		Gemini    Gemini    `koanf:"gemini"`
		Log       Log       `koanf:"log"`
		Migration Migration `koanf:"migration"`
	}

	// Redis holds the cloud backend document store parameters.
	Redis struct {
		URL string `koanf:"url"`
	}

	// Minio holds the cloud backend media bucket parameters.
	Minio struct {
		Endpoint  string `koanf:"endpoint"`
		AccessKey string `koanf:"access_key"`
		SecretKey string `koanf:"secret_key"`
		Bucket    string `koanf:"bucket"`
		Secure    bool   `koanf:"secure"`
		PublicURL string `koanf:"public_url"`
	}

	// Server holds the http backend parameters.
	Server struct {
		URL string `koanf:"url"`
	}

	// Gemini holds the advice service parameters.
	Gemini struct {
		APIKey   string `koanf:"api_key"`
		Endpoint string `koanf:"endpoint"`
	}

	// Log holds the logging parameters.
	Log struct {
		File  string `koanf:"file"`
		Level string `koanf:"level"`
	}

	// Migration holds the one-shot migrations applied after a board load.
	Migration struct {
		// LegacyNotes are the contents of the notes to drop.
		LegacyNotes []string `koanf:"legacy_notes"`
	}
)

// Defaults returns the default configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"backend":        "local",
		"database_path":  "visionboard.db",
		"database_codec": "msgpack",
		"poll_interval":  "1s",
		"debounce":       "800ms",
		"address":        "localhost:5000",
		"body_limit":     "10M",
		"redis.url":      "redis://localhost:6379/0",
		"minio.bucket":   "visionboard",
		"server.url":     "http://localhost:5000",
		"log.level":      "info",
	}
}

// Load reads the configuration from the defaults, the given YAML file (if any) and the environment.
func Load(filename string) (Config, error) {
	konf := koanf.New(".")

	var cfg Config
	if err := konf.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return cfg, errors.Wrap(err, "could not load default configuration")
	}

	if filename != "" {
		if err := konf.Load(file.Provider(filename), yaml.Parser()); err != nil {
			return cfg, errors.Wrapf(err, "could not load configuration file %s", filename)
		}
	}

	err := konf.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil)
	if err != nil {
		return cfg, errors.Wrap(err, "could not load environment configuration")
	}

	err = konf.Unmarshal("", &cfg)
	return cfg, errors.Wrap(err, "could not parse configuration")
}
