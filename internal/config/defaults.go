package config

import "time"

// Default values applied when the configuration omits a field.
const (
	DefaultOutputDirectory = "public"
	DefaultIndexFile       = "index.json"
	DefaultEventSubject    = "sitegen.build"
)

// Default returns a configuration with every default applied and no sources.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields. It never overrides explicit values.
func ApplyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDirectory
	}

	b := &cfg.Builders
	if len(b.Markdown.Patterns) == 0 {
		b.Markdown.Patterns = []string{"*.md"}
	}
	if len(b.Assets.Patterns) == 0 {
		b.Assets.Patterns = []string{"static/*"}
	}
	if len(b.Index.Patterns) == 0 {
		b.Index.Patterns = b.Markdown.Patterns
	}
	if b.Index.File == "" {
		b.Index.File = DefaultIndexFile
	}

	r := &cfg.Retry
	if r.Mode == "" {
		r.Mode = RetryBackoffExponential
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = 100 * time.Millisecond
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = 2 * time.Second
	}
	if r.MaxRetries == nil {
		r.MaxRetries = Int(2)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}

	if cfg.Events.Subject == "" {
		cfg.Events.Subject = DefaultEventSubject
	}
}
