// Package config handles loading kinly's config.toml.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

const (
	BackendJSON     = "json"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config represents the config.toml file.
type Config struct {
	Storage Storage `toml:"storage"`
	UI      UI      `toml:"ui"`
	Log     Log     `toml:"log"`

	// Dir is the directory relative paths resolve against. Not read from
	// the file.
	Dir string `toml:"-"`
}

type Storage struct {
	// Backend selects where lists and items live.
	Backend string `toml:"backend" validate:"oneof=json memory postgres"`
	// Path is the JSON data file, relative to Dir unless absolute.
	Path string `toml:"path" validate:"required_if=Backend json"`
	// DSN is the PostgreSQL connection string.
	DSN string `toml:"dsn" validate:"required_if=Backend postgres"`
}

type UI struct {
	Theme string `toml:"theme" validate:"oneof=classic neon mono"`
	// Color is auto, always or never.
	Color string `toml:"color" validate:"oneof=auto always never"`
	// Group splits listings into pending and done.
	Group bool `toml:"group"`
}

type Log struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Default is used for anything the file leaves unset.
func Default() Config {
	return Config{
		Storage: Storage{Backend: BackendJSON, Path: "kinly.json"},
		UI:      UI{Theme: "classic", Color: "auto"},
		Log:     Log{Level: "warn"},
	}
}

// Path returns the config file location: $KINLY_CONFIG, or
// ~/.config/kinly/config.toml.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv("KINLY_CONFIG")); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "get home directory")
	}
	return filepath.Join(home, ".config", "kinly", "config.toml"), nil
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Dir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrapf(err, "read config file %s", path)
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	return &cfg, nil
}

// applyEnv overrides the file. A relative KINLY_DATA is taken from the
// working directory, not the config directory.
func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("KINLY_BACKEND")); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("KINLY_DATA")); v != "" {
		abs, err := filepath.Abs(v)
		if err != nil {
			return errors.Wrapf(err, "resolve KINLY_DATA %s", v)
		}
		cfg.Storage.Path = abs
	}
	if v := strings.TrimSpace(os.Getenv("KINLY_DSN")); v != "" {
		cfg.Storage.DSN = v
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.UI.Theme = strings.ToLower(strings.TrimSpace(cfg.UI.Theme))
	cfg.UI.Color = strings.ToLower(strings.TrimSpace(cfg.UI.Color))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
}

var validate = validator.New()

func (c *Config) Validate() error {
	return validate.Struct(c)
}

// DataPath resolves a relative Storage.Path from the file against Dir.
func (c *Config) DataPath() string {
	p := c.Storage.Path
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}
