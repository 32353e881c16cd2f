package config

import (
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/foundation"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

var configValidators = foundation.NewValidatorChain(
	foundation.Check("sources", "required", "at least one source root must be configured",
		func(c *Config) bool { return len(c.Sources) > 0 }),
	foundation.Check("output.directory", "required", "output directory must be configured",
		func(c *Config) bool { return strings.TrimSpace(c.Output.Directory) != "" }),
	foundation.OneOf("retry.mode", func(c *Config) RetryBackoffMode { return c.Retry.Mode },
		RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential),
	foundation.Check("retry.max_retries", "range", "cannot be negative",
		func(c *Config) bool { return c.Retry.MaxRetries == nil || *c.Retry.MaxRetries >= 0 }),
	foundation.Check("retry.initial_delay", "range", "exceeds retry.max_delay",
		func(c *Config) bool { return c.Retry.MaxDelay <= 0 || c.Retry.InitialDelay <= c.Retry.MaxDelay }),
	foundation.Check("events.subject", "format", "must not contain whitespace",
		func(c *Config) bool { return c.Events.NATSURL == "" || !strings.ContainsAny(c.Events.Subject, " \t") }),
	foundation.Check("builders.index.file", "required", "must not be empty",
		func(c *Config) bool { return strings.TrimSpace(c.Builders.Index.File) != "" }),
)

// ValidateConfig checks a defaulted configuration for values the pipeline
// cannot run with. Every failing field is reported in one error.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return ferrors.ValidationError("configuration is nil").Build()
	}
	return configValidators.Validate(cfg).ToError()
}
