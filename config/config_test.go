package config

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("AWS_ENDPOINT_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.EndpointURL)
	assert.Nil(t, cfg.AWSConfig().Endpoint)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", " DEBUG ")
	t.Setenv("LOG_FORMAT", "Text")
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:4566")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "http://localhost:4566", aws.StringValue(cfg.AWSConfig().Endpoint))
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, key, value, msg string
	}{
		{"level", "LOG_LEVEL", "verbose", "invalid log level"},
		{"format", "LOG_FORMAT", "xml", "invalid log format"},
		{"endpoint", "AWS_ENDPOINT_URL", "localhost", "invalid endpoint url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", "")
			t.Setenv("LOG_FORMAT", "")
			t.Setenv("AWS_ENDPOINT_URL", "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
