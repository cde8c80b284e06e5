// Package config resolves pmdrill's settings from defaults, an optional
// YAML file, and PMDRILL_* environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/pmdrill/internal/quiz"
)

// Config holds every user-tunable setting.
type Config struct {
	// DBPath is the SQLite file. Empty means the XDG default.
	DBPath string `yaml:"db_path"`

	// DataSource is a file path or http(s) URL of the dataset document.
	// Empty means the built-in dataset.
	DataSource string `yaml:"data_source" validate:"omitempty,datasource"`

	// DefaultMode is the drill mode `pmdrill play` starts in.
	DefaultMode string `yaml:"default_mode" validate:"required,quizmode"`

	LogLevel string `yaml:"log_level" validate:"required,oneof=debug info warn error"`

	// Seed fixes the question order when non-zero.
	Seed uint64 `yaml:"seed"`
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New(validator.WithRequiredStructEnabled())
	mustRegister("quizmode", func(fl validator.FieldLevel) bool {
		_, err := quiz.ParseMode(fl.Field().String())
		return err == nil
	})
	mustRegister("datasource", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return len(s) > len("https://")
		}
		return strings.TrimSpace(s) != ""
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := configValidate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("config: register %s validation: %v", tag, err))
	}
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		DefaultMode: string(quiz.ModeGroup),
		LogLevel:    "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pmdrill/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "pmdrill", "config.yaml"), nil
}

// Load resolves the configuration with priority env > file > defaults.
// An empty path reads the default config file if it exists; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if err := loadFile(path, explicit, &cfg); err != nil {
		return cfg, fmt.Errorf("load config file: %w", err)
	}

	loadEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, mustExist bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return nil
		}
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("PMDRILL_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PMDRILL_DATA"); v != "" {
		cfg.DataSource = v
	}
	if v := os.Getenv("PMDRILL_MODE"); v != "" {
		cfg.DefaultMode = v
	}
	if v := os.Getenv("PMDRILL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("PMDRILL_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
}

// Validate checks field constraints and reports every violation.
func (c Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var errs []error
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: %q fails %q", yamlName(fe.StructField()), fe.Value(), fe.Tag()))
	}
	return errors.Join(errs...)
}

func yamlName(field string) string {
	switch field {
	case "DBPath":
		return "db_path"
	case "DataSource":
		return "data_source"
	case "DefaultMode":
		return "default_mode"
	case "LogLevel":
		return "log_level"
	}
	return field
}
