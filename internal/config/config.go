// Package config loads tutorloop settings from defaults, an optional YAML
// file, a .env file and TUTORLOOP_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/logging"
	"github.com/abhisek/tutorloop/internal/phase"
)

const (
	envPrefix         = "TUTORLOOP_"
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Config is the complete application configuration.
type Config struct {
	LLM    llm.Config     `koanf:"llm"`
	Lesson LessonConfig   `koanf:"lesson"`
	Log    logging.Config `koanf:"log"`
	Server ServerConfig   `koanf:"server"`

	// DB is the event store path. Empty means store.DefaultDBPath.
	DB string `koanf:"db"`
}

// LessonConfig describes the lesson new sessions run.
type LessonConfig struct {
	Topic          string `koanf:"topic"`
	Audience       string `koanf:"audience"`
	TotalQuestions int    `koanf:"total_questions"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// MaxSessions bounds the in-memory session registry.
	MaxSessions int `koanf:"max_sessions"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: llm.DefaultConfig(),
		Lesson: LessonConfig{
			Topic:          "adding whole numbers",
			TotalQuestions: phase.DefaultTotalQuestions,
		},
		Log: logging.DefaultConfig(),
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute,
			MaxSessions:  1000,
		},
	}
}

// Validate checks everything except LLM credentials, which are only needed
// by commands that talk to a model.
func (c *Config) Validate() error {
	if err := (phase.Config{TotalQuestions: c.Lesson.TotalQuestions}).Validate(); err != nil {
		return fmt.Errorf("lesson: %w", err)
	}
	if c.Lesson.Topic == "" {
		return errors.New("lesson: topic is required")
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.Server.MaxSessions < 1 {
		return fmt.Errorf("server: max_sessions must be at least 1, got %d", c.Server.MaxSessions)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/tutorloop/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tutorloop", "config.yaml"), nil
}

// Load builds the configuration.
//
// Precedence (highest to lowest):
//  1. TUTORLOOP_* environment variables, including ones set by .env
//  2. The YAML file at path (or DefaultPath when path is empty)
//  3. Built-in defaults
//
// An explicit path must exist; the default path is optional. When no
// provider is configured with a key, the standard vendor API key variables
// are probed.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	k := koanf.New(".")

	raw, err := readConfigFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if llmCfg, ok := llm.Discover(cfg.LLM, os.Getenv); ok {
		cfg.LLM = llmCfg
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv loads path into the environment if it exists. Variables that
// are already set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds 1MB", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return raw, nil
}
