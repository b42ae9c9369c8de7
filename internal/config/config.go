// Package config loads the conduit-echo configuration: optional .env,
// optional YAML file, then CONDUIT_-prefixed environment variables, where
// "__" maps to ".". The merged tree is unmarshalled into a validated
// struct.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// Config is the demo server configuration.
type Config struct {
	ListenAddr  string `koanf:"listen_addr" validate:"required,hostname_port"`
	MetricsAddr string `koanf:"metrics_addr" validate:"omitempty,hostname_port"`
	Debug       bool   `koanf:"debug"`
	CORS        bool   `koanf:"cors"`
}

var v = validator.New()

// Load merges defaults, an optional YAML file at path, and the
// environment overlay, then validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	cfg := Config{
		ListenAddr:  ":8080",
		MetricsAddr: ":9090",
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", path, "err", err)
			return nil, err
		}
	}

	if err := k.Load(env.Provider("CONDUIT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "CONDUIT_")
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}
	if err := v.Struct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}
	return &cfg, nil
}
