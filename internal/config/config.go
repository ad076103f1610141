package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Library LibraryConfig `yaml:"library"`
	Round   RoundConfig   `yaml:"round"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"PORT"                    env-default:"8090"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LibraryConfig controls where anthologies are loaded from.
type LibraryConfig struct {
	SourcesDir           string `yaml:"sources_dir"            env:"SOURCES_DIR"            env-default:"./anthologies"`
	LoadConcurrency      int    `yaml:"load_concurrency"       env:"LOAD_CONCURRENCY"       env-default:"4"`
	PDFFallbackPdftotext bool   `yaml:"pdf_fallback_pdftotext" env:"PDF_FALLBACK_PDFTOTEXT" env-default:"true"`
	// Zero seeds from the clock.
	Seed uint64 `yaml:"seed" env:"RANDOM_SEED" env-default:"0"`
}

// RoundConfig holds excerpt budgets and round timing.
type RoundConfig struct {
	MaxChars        int           `yaml:"max_chars"          env:"MAX_CHARS"          env-default:"100"`
	MaxCharsPerLine int           `yaml:"max_chars_per_line" env:"MAX_CHARS_PER_LINE" env-default:"20"`
	Timeout         time.Duration `yaml:"timeout"            env:"ROUND_TIMEOUT"      env-default:"60s"`
	WrongKeyPenalty time.Duration `yaml:"wrong_key_penalty"  env:"WRONG_KEY_PENALTY"  env-default:"3s"`
	NextRoundDelay  time.Duration `yaml:"next_round_delay"   env:"NEXT_ROUND_DELAY"   env-default:"3s"`
	TickInterval    time.Duration `yaml:"tick_interval"      env:"ROUND_TICK"         env-default:"100ms"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path is CONFIG_PATH, falling back to "./config.yaml" when
// that file exists.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Library.SourcesDir == "" {
		errs = append(errs, errors.New("library.sources_dir is required"))
	}
	if c.Library.LoadConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("library.load_concurrency must be positive, got %d", c.Library.LoadConcurrency))
	}
	if c.Round.MaxChars <= 0 {
		errs = append(errs, fmt.Errorf("round.max_chars must be positive, got %d", c.Round.MaxChars))
	}
	if c.Round.MaxCharsPerLine <= 0 {
		errs = append(errs, fmt.Errorf("round.max_chars_per_line must be positive, got %d", c.Round.MaxCharsPerLine))
	}
	if c.Round.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("round.timeout must be positive, got %s", c.Round.Timeout))
	}
	if c.Round.WrongKeyPenalty < 0 || c.Round.NextRoundDelay < 0 {
		errs = append(errs, errors.New("round.wrong_key_penalty and round.next_round_delay must not be negative"))
	}
	if c.Round.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("round.tick_interval must be positive, got %s", c.Round.TickInterval))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of %v, got %q", logLevels, c.Log.Level))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format must be one of %v, got %q", logFormats, c.Log.Format))
	}
	return errors.Join(errs...)
}

// SlogLevel maps Log.Level to a slog level.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger: JSON unless Format is "text".
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
