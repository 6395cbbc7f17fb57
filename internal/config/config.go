// Package config loads runtime settings for the study assistant.
//
// Sources are layered with koanf, lowest priority first: flag defaults, an
// optional YAML file, a .env file in the working directory, STUDYBUDDY_*
// environment variables, and finally flags set on the command line.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/studybuddy/internal/apperr"
)

// EnvPrefix is stripped from environment variables before they become keys:
// STUDYBUDDY_STORE_FILE sets store-file.
const EnvPrefix = "STUDYBUDDY_"

// Defaults
const (
	DefaultDataDir      = "."
	DefaultStoreFile    = "flashcards.json"
	DefaultHistoryFile  = "quiz_history.json"
	DefaultReposDir     = "repos"
	DefaultLanguage     = "portuguese"
	DefaultThreshold    = 0.25
	DefaultAlternatives = 4
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

type Config struct {
	DataDir      string  `koanf:"data-dir" validate:"required"`
	StoreFile    string  `koanf:"store-file" validate:"required"`
	HistoryFile  string  `koanf:"history-file" validate:"required"`
	ReposDir     string  `koanf:"repos-dir" validate:"required"`
	Language     string  `koanf:"language" validate:"oneof=portuguese english pt en none"`
	Threshold    float64 `koanf:"threshold" validate:"gte=0,lt=1"`
	Alternatives int     `koanf:"alternatives" validate:"gte=2,lte=10"`
	LogLevel     string  `koanf:"log-level" validate:"oneof=debug info warn error"`
	LogFormat    string  `koanf:"log-format" validate:"oneof=text json"`
}

// RegisterFlags adds every config key to fs with its default value.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a YAML config file")
	fs.String("data-dir", DefaultDataDir, "Directory holding the flashcard and history files")
	fs.String("store-file", DefaultStoreFile, "Flashcard store file (relative to data-dir)")
	fs.String("history-file", DefaultHistoryFile, "Quiz history file (relative to data-dir)")
	fs.String("repos-dir", DefaultReposDir, "Where git decks are cloned (relative to data-dir)")
	fs.String("language", DefaultLanguage, "Stop-word language: portuguese, english or none")
	fs.Float64("threshold", DefaultThreshold, "Minimum similarity for a confident answer")
	fs.Int("alternatives", DefaultAlternatives, "Options per quiz question")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.String("log-format", DefaultLogFormat, "Log format: text or json")
}

// Load builds a Config from fs and the other sources. fs must have been
// set up with RegisterFlags and parsed. configPath may be empty.
func Load(fs *pflag.FlagSet, configPath string) (Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	// Unchanged flags only fill keys no other source provided.
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("loading flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.resolvePaths()
	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return apperr.Wrap(apperr.CodeValidation, err, "invalid configuration")
	}
	return nil
}

func (c *Config) resolvePaths() {
	c.StoreFile = c.under(c.StoreFile)
	c.HistoryFile = c.under(c.HistoryFile)
	c.ReposDir = c.under(c.ReposDir)
}

func (c Config) under(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// NewLogger returns a logger writing to stderr at the configured level.
func NewLogger(cfg Config) *slog.Logger {
	return newLogger(os.Stderr, cfg)
}

func newLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
