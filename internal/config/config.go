package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Mongo     MongoConfig     `mapstructure:"mongo"`
	EventBus  EventBusConfig  `mapstructure:"eventbus"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// MongoConfig holds the document store target
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	Collection     string        `mapstructure:"collection"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// EventBusConfig holds NATS configuration
type EventBusConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	PrometheusPort int     `mapstructure:"prometheus_port"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	ServiceVersion string  `mapstructure:"service_version"`
	SampleRate     float64 `mapstructure:"sample_rate"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
	ErrorPath  string `mapstructure:"error_path"`
}

// MongoURIEnv is the environment variable holding the connection string
const MongoURIEnv = "MONGO_URI"

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/seeder")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	v.SetEnvPrefix("SEEDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The connection string keeps its conventional unprefixed name.
	if err := v.BindEnv("mongo.uri", MongoURIEnv, "SEEDER_MONGO_URI"); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", MongoURIEnv, err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings a seed run cannot do without
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo connection string is required (set %s)", MongoURIEnv)
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo database name is required")
	}
	if c.Mongo.Collection == "" {
		return fmt.Errorf("mongo collection name is required")
	}
	if c.Mongo.ConnectTimeout <= 0 {
		return fmt.Errorf("mongo connect timeout must be positive")
	}
	if c.EventBus.Enabled && c.EventBus.URL == "" {
		return fmt.Errorf("eventbus url is required when the event bus is enabled")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Mongo defaults; the URI has no default and must come from the environment or a file
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "HelloWorld")
	v.SetDefault("mongo.collection", "Users")
	v.SetDefault("mongo.connect_timeout", "10s")

	// Event bus defaults
	v.SetDefault("eventbus.enabled", false)
	v.SetDefault("eventbus.url", "nats://localhost:4222")
	v.SetDefault("eventbus.stream_name", "SEEDER_EVENTS")
	v.SetDefault("eventbus.subject_prefix", "seeder.events")
	v.SetDefault("eventbus.connect_timeout", "5s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.prometheus_port", 0)
	v.SetDefault("telemetry.jaeger_endpoint", "")
	v.SetDefault("telemetry.service_name", "users-seeder")
	v.SetDefault("telemetry.service_version", "1.0.0")
	v.SetDefault("telemetry.sample_rate", 1.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
	v.SetDefault("logging.error_path", "stderr")
}
