package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/danpasecinic/lattice"
)

// Settings are read from the environment. Values already present in the
// environment win over those in .env files.
type Settings struct {
	ConfigFile       string `env:"LATTICE_CONFIG_FILE"`
	DefaultLifecycle string `env:"LATTICE_DEFAULT_LIFECYCLE"`
	LogLevel         string `env:"LATTICE_LOG_LEVEL" envDefault:"info"`
}

// LoadSettings loads the given .env files, or ".env" when none are given,
// and parses Settings from the environment. Missing .env files are ignored.
func LoadSettings(envFiles ...string) (*Settings, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// Logger builds a production zap logger at the configured level.
func (s *Settings) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	return cfg.Build()
}

// Module loads ConfigFile, when set, and applies DefaultLifecycle on top of
// the file's own default.
func (s *Settings) Module(catalog *Catalog) (lattice.Module, error) {
	cfg := &Configuration{}
	if s.ConfigFile != "" {
		loaded, err := Load(s.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if s.DefaultLifecycle != "" {
		cfg.DefaultLifecycle = s.DefaultLifecycle
	}
	return NewModule(cfg, catalog)
}
