package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/hooks/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "hooks.json"

	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"

	// DefaultMaxPasses is the default per-task pass budget.
	DefaultMaxPasses = 100

	// DefaultDevtoolsAddr is the default devtools listen address.
	DefaultDevtoolsAddr = "localhost:7070"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "hooks"

	// DefaultTickInterval is the default Timer demo tick.
	DefaultTickInterval = "1s"

	// DefaultFetchDelay is the default simulated fetch latency.
	DefaultFetchDelay = "300ms"
)

// Config represents the complete hooks.json configuration.
type Config struct {
	// Debug forces debug logging regardless of LogLevel.
	Debug bool `json:"debug,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// MaxPasses bounds the render/flush passes of one task.
	MaxPasses int `json:"maxPasses,omitempty"`

	// Devtools contains inspector server configuration.
	Devtools DevtoolsConfig `json:"devtools,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Demo contains demo timing configuration.
	Demo DemoConfig `json:"demo,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevtoolsConfig contains inspector server settings.
type DevtoolsConfig struct {
	// Addr is the host:port the inspector listens on.
	Addr string `json:"addr,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`
}

// DemoConfig contains demo timings as Go duration strings.
type DemoConfig struct {
	// TickInterval is the Timer demo tick (e.g., "1s").
	TickInterval string `json:"tickInterval,omitempty"`

	// FetchDelay is the UserFetcher simulated latency (e.g., "300ms").
	FetchDelay string `json:"fetchDelay,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		MaxPasses: DefaultMaxPasses,
		Devtools: DevtoolsConfig{
			Addr: DefaultDevtoolsAddr,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Demo: DemoConfig{
			TickInterval: DefaultTickInterval,
			FetchDelay:   DefaultFetchDelay,
		},
	}
}

// Load reads configuration from the specified file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C001").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Run 'hookslab init' to write a default configuration")
		}
		return nil, errors.New("C001").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("C001").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir walks up from dir to the nearest directory holding
// hooks.json and loads it.
func LoadFromDir(dir string) (*Config, error) {
	root, err := FindRoot(dir)
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(root, ConfigFileName))
}

// FindRoot walks up directories to find the one containing hooks.json.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("C001").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'hookslab init' to write a default configuration")
		}
		dir = parent
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("C001").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C001").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.MaxPasses == 0 {
		c.MaxPasses = DefaultMaxPasses
	}
	if c.Devtools.Addr == "" {
		c.Devtools.Addr = DefaultDevtoolsAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Demo.TickInterval == "" {
		c.Demo.TickInterval = DefaultTickInterval
	}
	if c.Demo.FetchDelay == "" {
		c.Demo.FetchDelay = DefaultFetchDelay
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return invalid("logLevel", c.LogLevel, "Use one of debug, info, warn, error")
	}
	if c.MaxPasses < 1 {
		return invalid("maxPasses", strconv.Itoa(c.MaxPasses), "The pass budget must be at least 1")
	}
	if _, err := positiveDuration(c.Demo.TickInterval); err != nil {
		return invalid("demo.tickInterval", c.Demo.TickInterval, "Use a positive Go duration such as \"1s\"")
	}
	if _, err := positiveDuration(c.Demo.FetchDelay); err != nil {
		return invalid("demo.fetchDelay", c.Demo.FetchDelay, "Use a positive Go duration such as \"300ms\"")
	}
	return nil
}

// SlogLevel returns the configured log level. Debug overrides LogLevel.
func (c *Config) SlogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// TickInterval returns the Timer demo tick.
func (c *Config) TickInterval() time.Duration {
	d, err := positiveDuration(c.Demo.TickInterval)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTickInterval)
	}
	return d
}

// FetchDelay returns the simulated fetch latency.
func (c *Config) FetchDelay() time.Duration {
	d, err := positiveDuration(c.Demo.FetchDelay)
	if err != nil {
		d, _ = time.ParseDuration(DefaultFetchDelay)
	}
	return d
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(name)))
	return level, err
}

func positiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.Newf(errors.CategoryConfig, "duration %s is not positive", s)
	}
	return d, nil
}

func invalid(field, value, suggestion string) *errors.Error {
	return errors.New("C002").
		WithFact("field", field).
		WithFact("value", strconv.Quote(value)).
		WithSuggestion(suggestion)
}
