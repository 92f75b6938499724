package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/livetree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "livetree.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultTickMillis is the default interval of the preview ticker.
	DefaultTickMillis = 1000

	// DefaultStylePrefix is the default scoped class prefix.
	DefaultStylePrefix = "lt-"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "livetree"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "livetree"
)

// Config represents the complete livetree.json configuration.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"logLevel,omitempty"`

	// Style configures scoped style classes.
	Style StyleConfig `json:"style,omitempty"`

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Serve configures the preview server.
	Serve ServeConfig `json:"serve,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// StyleConfig contains scoped style settings.
type StyleConfig struct {
	// Prefix starts every generated class name.
	Prefix string `json:"prefix,omitempty"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Namespace is the Prometheus namespace.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains tracing settings.
type TracingConfig struct {
	// TracerName names the tracer spans are created with.
	TracerName string `json:"tracerName,omitempty"`
}

// ServeConfig contains preview server settings.
type ServeConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// TickMillis is how often the preview scenario advances.
	TickMillis int `json:"tickMillis,omitempty"`
}

// Default creates a Config with default values.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Style:    StyleConfig{Prefix: DefaultStylePrefix},
		Metrics:  MetricsConfig{Namespace: DefaultNamespace},
		Tracing:  TracingConfig{TracerName: DefaultTracerName},
		Serve: ServeConfig{
			Host:       DefaultHost,
			Port:       DefaultPort,
			TickMillis: DefaultTickMillis,
		},
	}
}

// Load reads livetree.json from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !Exists(dir) {
		cfg := Default()
		cfg.configPath = path
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C001").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Create the file or run without --config to use defaults")
		}
		return nil, errors.New("C001").Wrap(err)
	}

	cfg := Default()
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
		c.LogLevel = "info"
	}
	if c.Style.Prefix == "" {
		c.Style.Prefix = DefaultStylePrefix
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.TickMillis == 0 {
		c.Serve.TickMillis = DefaultTickMillis
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New("C002").
			WithValue(c.LogLevel).
			WithDetail("logLevel must be one of debug, info, warn or error")
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New("C002").
			WithValue(c.Serve.Port).
			WithDetail("serve.port must be between 0 and 65535")
	}
	if c.Serve.TickMillis < 0 {
		return errors.New("C002").
			WithValue(c.Serve.TickMillis).
			WithDetail("serve.tickMillis must not be negative")
	}
	if strings.ContainsAny(c.Style.Prefix, " .#:") {
		return errors.New("C002").
			WithValue(c.Style.Prefix).
			WithDetail("style.prefix must be usable as a class name")
	}
	return nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// ServeAddress returns the address string for the preview server.
func (c *Config) ServeAddress() string {
	return c.Serve.Host + ":" + strconv.Itoa(c.Serve.Port)
}

// Tick returns the preview ticker interval.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Serve.TickMillis) * time.Millisecond
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
