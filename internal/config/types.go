package config

import "time"

// Config represents the sitegen configuration file.
type Config struct {
	// BaseDirectory anchors relative sources, ignore rules and the output directory.
	// Defaults to the directory containing the configuration file.
	BaseDirectory string         `yaml:"base_directory,omitempty"`
	Sources       []string       `yaml:"sources"`
	Ignore        []string       `yaml:"ignore,omitempty"`
	SkipHidden    bool           `yaml:"skip_hidden,omitempty"`
	Output        OutputConfig   `yaml:"output"`
	Builders      BuildersConfig `yaml:"builders"`
	Retry         RetryConfig    `yaml:"retry"`
	Logging       LoggingConfig  `yaml:"logging"`
	Metrics       MetricsConfig  `yaml:"metrics"`
	Events        EventsConfig   `yaml:"events"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// BuildersConfig selects and tunes the bundled builders registered by the CLI.
type BuildersConfig struct {
	Markdown    MarkdownBuilderConfig    `yaml:"markdown"`
	Assets      AssetsBuilderConfig      `yaml:"assets"`
	Index       IndexBuilderConfig       `yaml:"index"`
	Passthrough PassthroughBuilderConfig `yaml:"passthrough"`
}

// MarkdownBuilderConfig configures Markdown page rendering.
type MarkdownBuilderConfig struct {
	Enabled     *bool    `yaml:"enabled,omitempty"`
	Patterns    []string `yaml:"patterns,omitempty"`
	Layout      string   `yaml:"layout,omitempty"` // optional html/template file
	StripPrefix string   `yaml:"strip_prefix,omitempty"`
}

// AssetsBuilderConfig configures verbatim asset copying.
type AssetsBuilderConfig struct {
	Enabled     *bool    `yaml:"enabled,omitempty"`
	Patterns    []string `yaml:"patterns,omitempty"`
	StripPrefix string   `yaml:"strip_prefix,omitempty"`
}

// IndexBuilderConfig configures the JSON page index.
type IndexBuilderConfig struct {
	Enabled  *bool    `yaml:"enabled,omitempty"`
	Patterns []string `yaml:"patterns,omitempty"`
	File     string   `yaml:"file,omitempty"`
}

// PassthroughBuilderConfig configures copying of files that match no pattern.
type PassthroughBuilderConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// RetryConfig tunes retries around filesystem collaborator calls.
type RetryConfig struct {
	Mode         RetryBackoffMode `yaml:"mode,omitempty"`
	InitialDelay time.Duration    `yaml:"initial_delay,omitempty"`
	MaxDelay     time.Duration    `yaml:"max_delay,omitempty"`
	MaxRetries   *int             `yaml:"max_retries,omitempty"`
}

// LoggingConfig selects log level and handler format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricsConfig enables Prometheus textfile export after each build.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// EventsConfig enables publishing build events to NATS.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	// Verbose also publishes per-file selected/ignored/duplicate events.
	Verbose bool `yaml:"verbose,omitempty"`
}

// BoolDefault returns *b, or def when unset.
func BoolDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }
