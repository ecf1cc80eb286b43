// internal/config/config.go
// Package config loads benchmark settings from an optional config file,
// LANGBENCH_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mwiater/langbench/internal/tasks"
)

const envPrefix = "LANGBENCH"

// Upload configures publishing of result artifacts to Cloud Storage.
// An empty Bucket disables publishing.
type Upload struct {
	Bucket          string `mapstructure:"bucket" json:"bucket,omitempty"`
	Prefix          string `mapstructure:"prefix" json:"prefix,omitempty"`
	CredentialsFile string `mapstructure:"credentials_file" json:"-"`
}

// Config is the fully resolved configuration of a benchmark run.
type Config struct {
	// Baseline is the language other languages are compared against.
	Baseline string `mapstructure:"baseline" json:"baseline"`
	// Runs is the number of timed replicas per command (hyperfine --runs).
	Runs int `mapstructure:"runs" json:"runs"`
	// Warmup is the number of discarded runs per command (hyperfine --warmup).
	Warmup int `mapstructure:"warmup" json:"warmup"`
	// MemoryRuns is how many times each command is re-run under time(1).
	MemoryRuns int `mapstructure:"memory_runs" json:"memory_runs"`
	// MemoryTimeout bounds a single memory measurement.
	MemoryTimeout time.Duration `mapstructure:"memory_timeout" json:"memory_timeout"`

	Hyperfine  string `mapstructure:"hyperfine" json:"hyperfine"`
	TimeBinary string `mapstructure:"time_binary" json:"time_binary"`
	Shell      string `mapstructure:"shell" json:"shell"`

	OutputDir string `mapstructure:"output_dir" json:"output_dir"`
	// SourceDir resolves relative task sources for line counting.
	SourceDir string `mapstructure:"source_dir" json:"source_dir"`
	Dataset   string `mapstructure:"dataset" json:"dataset"`
	Chart     bool   `mapstructure:"chart" json:"chart"`

	Upload Upload       `mapstructure:"upload" json:"upload"`
	Tasks  []tasks.Task `mapstructure:"tasks" json:"tasks"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" json:"file,omitempty"`
}

// Loader wraps a viper instance so flags can be bound before loading.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader with all defaults registered.
func NewLoader() *Loader {
	v := viper.New()
	v.SetDefault("baseline", "R")
	v.SetDefault("runs", 10)
	v.SetDefault("warmup", 3)
	v.SetDefault("memory_runs", 1)
	v.SetDefault("memory_timeout", 5*time.Minute)
	v.SetDefault("hyperfine", "hyperfine")
	v.SetDefault("time_binary", "/usr/bin/time")
	v.SetDefault("shell", "sh")
	v.SetDefault("output_dir", "results")
	v.SetDefault("source_dir", "")
	v.SetDefault("dataset", "data.csv")
	v.SetDefault("chart", true)
	v.SetDefault("upload.bucket", "")
	v.SetDefault("upload.prefix", "")
	v.SetDefault("upload.credentials_file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlag makes a command-line flag override the given key. A nil flag is
// ignored so commands can bind only the flags they declare.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}
	if err := l.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("bind flag %s: %w", flag.Name, err)
	}
	return nil
}

// Load reads the config file at path. An empty path searches the working
// directory for langbench.{yaml,json,toml}; not finding one is not an error.
func (l *Loader) Load(path string) (Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName("langbench")
		l.v.AddConfigPath(".")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}
	cfg.File = l.v.ConfigFileUsed()
	if len(cfg.Tasks) == 0 {
		cfg.Tasks = tasks.Defaults()
	}
	return cfg, nil
}

// Load is a shorthand for NewLoader().Load(path).
func Load(path string) (Config, error) {
	return NewLoader().Load(path)
}

// Validate checks the settings a benchmark run depends on.
func (c Config) Validate() error {
	if c.Runs < 2 {
		return fmt.Errorf("runs must be at least 2 to compute a standard deviation (got %d)", c.Runs)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup must not be negative (got %d)", c.Warmup)
	}
	if c.MemoryRuns < 0 {
		return fmt.Errorf("memory_runs must not be negative (got %d)", c.MemoryRuns)
	}
	if c.MemoryTimeout <= 0 {
		return fmt.Errorf("memory_timeout must be positive (got %s)", c.MemoryTimeout)
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if err := tasks.Validate(c.Tasks); err != nil {
		return err
	}
	if !tasks.HasLanguage(c.Tasks, c.Baseline) {
		return fmt.Errorf("baseline language %q has no tasks", c.Baseline)
	}
	return nil
}
