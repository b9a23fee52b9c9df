package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/spf13/viper"
)

// Config holds the function configuration. Credentials and region are not
// part of it, the AWS SDK resolves them from the execution environment.
type Config struct {
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	// EndpointURL replaces the ECS endpoint, e.g. to target a local stack.
	EndpointURL string `json:"endpoint_url"`
}

// Load reads the configuration from environment variables with defaults.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("AWS_ENDPOINT_URL", "")
	v.AutomaticEnv()

	cfg := &Config{
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		EndpointURL: v.GetString("AWS_ENDPOINT_URL"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AWSConfig returns the SDK configuration for the session.
func (c *Config) AWSConfig() *aws.Config {
	cfg := aws.NewConfig()
	if c.EndpointURL != "" {
		cfg = cfg.WithEndpoint(c.EndpointURL)
	}
	return cfg
}

func (c *Config) validate() error {
	level := strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel)
	}
	c.LogLevel = level

	format := strings.ToLower(strings.TrimSpace(c.LogFormat))
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid log format '%s': must be json or text", c.LogFormat)
	}
	c.LogFormat = format

	c.EndpointURL = strings.TrimSpace(c.EndpointURL)
	if c.EndpointURL != "" {
		u, err := url.Parse(c.EndpointURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid endpoint url '%s': must be an absolute url", c.EndpointURL)
		}
	}
	return nil
}
