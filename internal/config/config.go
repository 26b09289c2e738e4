// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config holds every tunable of the gantt binary.
type Config struct {
	// DBPath is the SQLite file; a leading "~/" is expanded to the home
	// directory. ":memory:" keeps everything in process.
	DBPath string `env:"GANTT_DB" envDefault:"~/.gantt/gantt.db" validate:"required"`

	ColumnWidth   int `env:"GANTT_COLUMN_WIDTH" envDefault:"32" validate:"gte=1,lte=512"`
	RowHeight     int `env:"GANTT_ROW_HEIGHT" envDefault:"28" validate:"gte=4"`
	BarHeight     int `env:"GANTT_BAR_HEIGHT" envDefault:"18" validate:"gte=1,ltefield=RowHeight"`
	WindowPadDays int `env:"GANTT_WINDOW_PAD_DAYS" envDefault:"3" validate:"gte=0,lte=365"`
	// CellWidth is the number of terminal cells per day in the interactive chart.
	CellWidth   int        `env:"GANTT_CELL_WIDTH" envDefault:"2" validate:"gte=1,lte=8"`
	LabelWidth  int        `env:"GANTT_LABEL_WIDTH" envDefault:"24" validate:"gte=8,lte=80"`
	CacheSize   int        `env:"GANTT_CACHE_SIZE" envDefault:"64" validate:"gte=1"`
	LogUseCases bool       `env:"GANTT_LOG_USE_CASES" envDefault:"false"`
	LogLevel    slog.Level `env:"GANTT_LOG_LEVEL" envDefault:"info"`
	Currency    string     `env:"GANTT_CURRENCY" envDefault:"USD" validate:"len=3,uppercase"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the process environment.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads configuration from the given variables instead of the
// process environment when environ is non-nil.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	path, err := expandHome(cfg.DBPath)
	if err != nil {
		return Config{}, err
	}
	cfg.DBPath = path
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
