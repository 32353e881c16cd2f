package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOutputDirectory(t *testing.T) {
	cfg := &Config{Output: OutputConfig{Directory: "./custom-site///"}}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "custom-site", cfg.Output.Directory)
	assert.NotEmpty(t, res.Warnings)
}

func TestNormalizeEnums(t *testing.T) {
	cfg := &Config{
		Retry:   RetryConfig{Mode: "Linear"},
		Logging: LoggingConfig{Level: "verbose", Format: "JSON"},
	}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, RetryBackoffLinear, cfg.Retry.Mode)
	assert.Equal(t, LogLevel(""), cfg.Logging.Level, "unknown level resets so defaults apply")
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Len(t, res.Warnings, 2)

	ApplyDefaults(cfg)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
}

func TestNormalizeKeepsSourceOrderAndDuplicates(t *testing.T) {
	cfg := &Config{Sources: []string{"b", "a", "b"}}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "b"}, cfg.Sources)
	assert.Empty(t, res.Warnings)
}

func TestNormalizeNil(t *testing.T) {
	_, err := NormalizeConfig(nil)
	require.Error(t, err)
}
