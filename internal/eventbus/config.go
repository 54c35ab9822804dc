package eventbus

import (
	"fmt"
	"strings"
	"time"
)

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `json:"url" yaml:"url" mapstructure:"url"`
	StreamName     string        `json:"stream_name" yaml:"stream_name" mapstructure:"stream_name"`
	SubjectPrefix  string        `json:"subject_prefix" yaml:"subject_prefix" mapstructure:"subject_prefix"`
	MaxAge         time.Duration `json:"max_age" yaml:"max_age" mapstructure:"max_age"`
	Replicas       int           `json:"replicas" yaml:"replicas" mapstructure:"replicas"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout" mapstructure:"connect_timeout"`
}

// DefaultNATSConfig returns default NATS configuration
func DefaultNATSConfig() *NATSConfig {
	return &NATSConfig{
		URL:            "nats://localhost:4222",
		StreamName:     "SEEDER_EVENTS",
		SubjectPrefix:  "seeder.events",
		MaxAge:         7 * 24 * time.Hour,
		Replicas:       1,
		ConnectTimeout: 5 * time.Second,
	}
}

// Validate validates the NATS configuration and fills optional fields
func (c *NATSConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("NATS URL is required")
	}

	if c.StreamName == "" {
		return fmt.Errorf("NATS stream name is required")
	}

	if c.SubjectPrefix == "" || strings.ContainsAny(c.SubjectPrefix, " *>") {
		return fmt.Errorf("NATS subject prefix %q is invalid", c.SubjectPrefix)
	}

	if c.MaxAge <= 0 {
		c.MaxAge = 7 * 24 * time.Hour
	}

	if c.Replicas < 1 {
		c.Replicas = 1
	}

	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}

	return nil
}

// streamSubjects returns the wildcard subject captured by the stream
func (c *NATSConfig) streamSubjects() []string {
	return []string{c.SubjectPrefix + ".>"}
}
