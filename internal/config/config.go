package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "CLEANSWEEP_"

type DiscoveryCfg struct {
	DirectoryOnly bool `yaml:"directory_only" json:"directory_only"`
	ExcludeHidden bool `yaml:"exclude_hidden" json:"exclude_hidden"` // Drops every name containing a dot
}

type MetricsCfg struct {
	Address string `yaml:"address" json:"address"` // Empty disables the metrics server
}

type LoggingCfg struct {
	File         string `yaml:"file" json:"file"`                   // Optional log file, stderr only when empty
	RotationDays int    `yaml:"rotation_days" json:"rotation_days"` // Days to keep logs before rotation
}

type Config struct {
	BaseDir        string       `yaml:"base_dir" json:"base_dir"`
	DefaultBaseDir string       `yaml:"default_base_dir" json:"default_base_dir"`
	Verbose        any          `yaml:"verbose" json:"verbose"`           // Kept untyped, validated by the cleaner
	PauseMillis    *int         `yaml:"pause_millis" json:"pause_millis"` // Pause after each message block
	MaxTrials      int          `yaml:"max_trials" json:"max_trials"`
	Discovery      DiscoveryCfg `yaml:"discovery" json:"discovery"`
	DatabasePath   string       `yaml:"database_path" json:"database_path"` // SQLite history, disabled when empty
	Metrics        MetricsCfg   `yaml:"metrics" json:"metrics"`
	Logging        LoggingCfg   `yaml:"logging" json:"logging"`
}

// envOverrides holds the values accepted from the environment.
type envOverrides struct {
	BaseDir        string `env:"BASE_DIR"`
	Verbose        string `env:"VERBOSE"`
	DatabasePath   string `env:"DATABASE_PATH"`
	MetricsAddress string `env:"METRICS_ADDRESS"`
	LogFile        string `env:"LOG_FILE"`
}

var (
	errNegativeTrials   = errors.New("max_trials cannot be negative")
	errNegativePause    = errors.New("pause_millis cannot be negative")
	errNegativeRotation = errors.New("logging.rotation_days cannot be negative")
	errInvalidPath      = errors.New("path must not be blank")
)

const (
	defaultMaxTrials    = 3
	defaultPauseMillis  = 1000
	defaultRotationDays = 30
)

// Load reads the YAML file at path, applies environment overrides and defaults.
// A missing file is only an error when explicit is set.
func Load(path string, explicit bool) (*Config, error) {
	return load(path, explicit, env.Options{})
}

func load(path string, explicit bool, opts env.Options) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if cfg, err = decode(f); err != nil {
				return nil, err
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, fmt.Errorf("open config: %w", err)
		}
	}

	if err := cfg.applyEnv(opts); err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(opts env.Options) error {
	opts.Prefix = EnvPrefix

	var o envOverrides
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if o.BaseDir != "" {
		c.BaseDir = o.BaseDir
	}
	if o.Verbose != "" {
		c.Verbose = ParseVerbose(o.Verbose)
	}
	if o.DatabasePath != "" {
		c.DatabasePath = o.DatabasePath
	}
	if o.MetricsAddress != "" {
		c.Metrics.Address = o.MetricsAddress
	}
	if o.LogFile != "" {
		c.Logging.File = o.LogFile
	}
	return nil
}

// ParseVerbose turns a textual verbosity into a bool when it parses as one.
// Anything else is returned unchanged so that validation can report it.
func ParseVerbose(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func (c *Config) validateAndDefault() error {
	if c.MaxTrials < 0 {
		return errNegativeTrials
	}
	if c.MaxTrials == 0 {
		c.MaxTrials = defaultMaxTrials
	}

	if c.PauseMillis == nil {
		pause := defaultPauseMillis
		c.PauseMillis = &pause
	} else if *c.PauseMillis < 0 {
		return errNegativePause
	}

	if c.Logging.RotationDays < 0 {
		return errNegativeRotation
	}
	if c.Logging.RotationDays == 0 {
		c.Logging.RotationDays = defaultRotationDays
	}

	// Verbose left unset keeps the tool talkative
	if c.Verbose == nil {
		c.Verbose = true
	}

	if c.DefaultBaseDir != "" {
		cp, err := cleanPath(c.DefaultBaseDir)
		if err != nil {
			return fmt.Errorf("default_base_dir: %w", err)
		}
		c.DefaultBaseDir = cp
	}

	return nil
}

func cleanPath(p string) (string, error) {
	if p == "" {
		return "", errInvalidPath
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errInvalidPath, p)
	}
	return filepath.Clean(abs), nil
}

// Pause returns the delay shown after each console message block.
func (c *Config) Pause() time.Duration {
	if c.PauseMillis == nil {
		return defaultPauseMillis * time.Millisecond
	}
	return time.Duration(*c.PauseMillis) * time.Millisecond
}

// ResolveDefaultBaseDir returns the configured default base directory or,
// when unset, the parent of the directory holding the running executable.
func (c *Config) ResolveDefaultBaseDir() (string, error) {
	if c.DefaultBaseDir != "" {
		return c.DefaultBaseDir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}
