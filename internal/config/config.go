// Package config loads phrasely settings from defaults, an optional config
// file and PHRASELY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/phrasely/internal/logging"
	"github.com/abhisek/phrasely/internal/reviewlog"
	"github.com/abhisek/phrasely/internal/spacedrep"
)

// EnvPrefix prefixes every environment override, e.g. PHRASELY_DB.
const EnvPrefix = "PHRASELY"

// Config holds all runtime settings.
type Config struct {
	// DB is the SQLite database path. Empty resolves to the XDG data dir.
	DB string `mapstructure:"db"`

	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error
	LogMode  string `mapstructure:"log_mode"`  // dev or prod
	// LogFile receives log output while the review screen owns the terminal.
	// Empty disables logging during review.
	LogFile string `mapstructure:"log_file"`

	// LogCapacity bounds the review log, in memory and on disk.
	LogCapacity int `mapstructure:"log_capacity"`

	// SessionSize caps the number of reviews per session. 0 = unlimited.
	SessionSize int `mapstructure:"session_size"`

	Intervals       []time.Duration `mapstructure:"intervals"`
	PromotionStreak int             `mapstructure:"promotion_streak"`
	MasteryTier     int             `mapstructure:"mastery_tier"`
	LeechThreshold  int             `mapstructure:"leech_threshold"`
	RetryShortDelay time.Duration   `mapstructure:"retry_short_delay"`
	PostponeDelay   time.Duration   `mapstructure:"postpone_delay"`
}

// Default returns a Config with the built-in defaults.
func Default() Config {
	return Config{
		LogLevel:        "warn",
		LogMode:         "dev",
		LogCapacity:     reviewlog.DefaultCapacity,
		SessionSize:     0,
		Intervals:       append([]time.Duration(nil), spacedrep.DefaultIntervals...),
		PromotionStreak: spacedrep.DefaultPromotionStreak,
		MasteryTier:     spacedrep.DefaultMasteryTier,
		LeechThreshold:  spacedrep.DefaultLeechThreshold,
		RetryShortDelay: spacedrep.DefaultRetryShortDelay,
		PostponeDelay:   spacedrep.DefaultPostponeDelay,
	}
}

// Load reads the config file at path (or the default location when path is
// empty and the file exists), applies PHRASELY_* environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if p, err := DefaultPath(); err == nil {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("db", d.DB)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_mode", d.LogMode)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_capacity", d.LogCapacity)
	v.SetDefault("session_size", d.SessionSize)
	v.SetDefault("intervals", d.Intervals)
	v.SetDefault("promotion_streak", d.PromotionStreak)
	v.SetDefault("mastery_tier", d.MasteryTier)
	v.SetDefault("leech_threshold", d.LeechThreshold)
	v.SetDefault("retry_short_delay", d.RetryShortDelay)
	v.SetDefault("postpone_delay", d.PostponeDelay)
}

// DefaultPath returns $XDG_CONFIG_HOME/phrasely/config.yaml, falling back to
// ~/.config/phrasely/config.yaml.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "phrasely", "config.yaml"), nil
}

// Policy converts the scheduling settings into an engine policy.
func (c Config) Policy() (spacedrep.Policy, error) {
	sched, err := spacedrep.NewSchedule(c.Intervals)
	if err != nil {
		return spacedrep.Policy{}, fmt.Errorf("intervals: %w", err)
	}
	p := spacedrep.Policy{
		Schedule:        sched,
		PromotionStreak: c.PromotionStreak,
		MasteryTier:     c.MasteryTier,
		LeechThreshold:  c.LeechThreshold,
		RetryShortDelay: c.RetryShortDelay,
		PostponeDelay:   c.PostponeDelay,
	}
	if err := p.Validate(); err != nil {
		return spacedrep.Policy{}, err
	}
	return p, nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogCapacity < 1 {
		errs = append(errs, fmt.Errorf("log_capacity must be positive, got %d", c.LogCapacity))
	}
	if c.SessionSize < 0 {
		errs = append(errs, fmt.Errorf("session_size must not be negative, got %d", c.SessionSize))
	}
	if _, err := c.Policy(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
