// Package config loads run settings from xlclean.toml, .env and XLCLEAN_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/ukaji3/xlclean-go/pkg/xlclean"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/ledger"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/preview"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/resolver"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "xlclean.toml"

// Environment variables overriding the file.
const (
	EnvInput           = "XLCLEAN_INPUT"
	EnvOutput          = "XLCLEAN_OUTPUT"
	EnvLedger          = "XLCLEAN_LEDGER"
	EnvLogLevel        = "XLCLEAN_LOG_LEVEL"
	EnvMaxAttempts     = "XLCLEAN_MAX_ATTEMPTS"
	EnvMaxFaultRetries = "XLCLEAN_MAX_FAULT_RETRIES"
)

// Config holds the settings of a run.
type Config struct {
	Input    string `toml:"input"`
	Output   string `toml:"output"`
	Ledger   string `toml:"ledger"`
	LogLevel string `toml:"log_level"`

	Fields          []string `toml:"fields"`
	SplitPolicy     string   `toml:"split_policy"`
	MaxAttempts     int      `toml:"max_attempts"`
	MaxFaultRetries int      `toml:"max_fault_retries"`
	SortEntries     bool     `toml:"sort_entries"`

	Preview PreviewConfig `toml:"preview"`
}

// PreviewConfig bounds the sheet previews.
type PreviewConfig struct {
	MaxRows     int `toml:"max_rows"`
	MaxCols     int `toml:"max_cols"`
	WidthRows   int `toml:"width_rows"`
	SampleDepth int `toml:"sample_depth"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	opts := xlclean.DefaultOptions()
	fields := make([]string, len(opts.Fields))
	for i, f := range opts.Fields {
		fields[i] = string(f)
	}
	return &Config{
		LogLevel:        "info",
		Fields:          fields,
		SplitPolicy:     string(opts.SplitPolicy),
		MaxAttempts:     opts.MaxAttempts,
		MaxFaultRetries: opts.MaxFaultRetries,
		SortEntries:     opts.SortEntries,
		Preview: PreviewConfig{
			MaxRows:     opts.Preview.MaxRows,
			MaxCols:     opts.Preview.MaxCols,
			WidthRows:   opts.Preview.WidthRows,
			SampleDepth: opts.SampleDepth,
		},
	}
}

// Load reads the TOML file at path over the defaults, then applies .env and
// the environment. A missing file is not an error; an empty path reads
// DefaultPath.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from XLCLEAN_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvInput); v != "" {
		c.Input = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvLedger); v != "" {
		c.Ledger = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvMaxAttempts); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxAttempts, err)
		}
		c.MaxAttempts = n
	}
	if v := os.Getenv(EnvMaxFaultRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxFaultRetries, err)
		}
		c.MaxFaultRetries = n
	}
	return nil
}

// Validate checks the settings needed for an interactive run.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input directory is required")
	}
	if c.Output == "" {
		return errors.New("output directory is required")
	}
	return c.validateFields()
}

func (c *Config) validateFields() error {
	if len(c.Fields) == 0 {
		return errors.New("at least one field is required")
	}
	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		name := strings.TrimSpace(f)
		switch {
		case name == "":
			return errors.New("field names must not be empty")
		case seen[name]:
			return fmt.Errorf("field %q is listed twice", name)
		case ledger.IsReserved(name):
			return fmt.Errorf("field %q collides with a ledger key", name)
		}
		seen[name] = true
	}
	switch resolver.SplitPolicy(c.SplitPolicy) {
	case resolver.SplitPermit, resolver.SplitStrict, "":
	default:
		return fmt.Errorf("unknown split policy %q", c.SplitPolicy)
	}
	if c.MaxAttempts < 0 {
		return errors.New("max_attempts must not be negative")
	}
	return nil
}

// ValidateReplay checks the settings needed to replay a ledger.
func (c *Config) ValidateReplay() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Ledger == "" {
		return xlclean.ErrNoLedger
	}
	return nil
}

// Options converts the settings to run options.
func (c *Config) Options() xlclean.Options {
	opts := xlclean.DefaultOptions()
	opts.Fields = make([]models.FieldName, len(c.Fields))
	for i, f := range c.Fields {
		opts.Fields[i] = models.FieldName(strings.TrimSpace(f))
	}
	if c.SplitPolicy != "" {
		opts.SplitPolicy = resolver.SplitPolicy(c.SplitPolicy)
	}
	opts.MaxAttempts = c.MaxAttempts
	opts.MaxFaultRetries = c.MaxFaultRetries
	opts.SortEntries = c.SortEntries
	opts.Preview = preview.Previewer{
		MaxRows:   positive(c.Preview.MaxRows, opts.Preview.MaxRows),
		MaxCols:   positive(c.Preview.MaxCols, opts.Preview.MaxCols),
		WidthRows: positive(c.Preview.WidthRows, opts.Preview.WidthRows),
	}
	opts.SampleDepth = positive(c.Preview.SampleDepth, opts.SampleDepth)
	return opts
}

func positive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
