package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// DefaultGroupPattern is the reserved routing key for files matching no pattern.
// Builders listing it among their patterns receive the default group.
const DefaultGroupPattern = "__default"

// Load reads, expands, normalizes, defaults and validates a configuration file.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", logfields.Error(err))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext(ferrors.KeyPath, configPath).
				Build()
		}
		return nil, ferrors.FileSystemError("cannot read path").
			WithCause(err).
			WithContext(ferrors.KeyPath, configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		return nil, ferrors.ConfigError("cannot resolve configuration path").WithCause(err).Build()
	}
	configDir := filepath.Dir(absConfig)
	switch {
	case cfg.BaseDirectory == "":
		cfg.BaseDirectory = configDir
	case !filepath.IsAbs(cfg.BaseDirectory):
		cfg.BaseDirectory = filepath.Join(configDir, cfg.BaseDirectory)
	}

	if err := Finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML after expanding ${VAR} references. It does not apply defaults.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.ConfigError("failed to unmarshal config").WithCause(err).Build()
	}
	return &cfg, nil
}

// Finalize normalizes, applies defaults and validates cfg in place.
func Finalize(cfg *Config) error {
	res, err := NormalizeConfig(cfg)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		slog.Warn("Configuration normalized", slog.String("detail", w))
	}
	ApplyDefaults(cfg)
	return ValidateConfig(cfg)
}

// ResolvePath anchors p at the base directory unless it is already absolute.
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	base := c.BaseDirectory
	if base == "" {
		base = "."
	}
	joined := filepath.Join(base, p)
	if abs, err := filepath.Abs(joined); err == nil {
		return abs
	}
	return joined
}

// SourceRoots returns the configured sources as absolute paths, in configuration order.
func (c *Config) SourceRoots() []string {
	out := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		out = append(out, c.ResolvePath(s))
	}
	return out
}

// IgnoreRules returns the ignore rules anchored at the base directory. Wildcards are kept.
func (c *Config) IgnoreRules() []string {
	out := make([]string, 0, len(c.Ignore))
	for _, r := range c.Ignore {
		out = append(out, c.ResolvePath(r))
	}
	return out
}

// OutputDir returns the absolute output directory.
func (c *Config) OutputDir() string {
	return c.ResolvePath(c.Output.Directory)
}

// BaseDir returns the absolute base directory.
func (c *Config) BaseDir() string {
	return c.ResolvePath(".")
}

const exampleConfig = `# sitegen configuration
sources:
  - content
  - static
ignore:
  - content/drafts/*
output:
  directory: public
builders:
  markdown:
    patterns: ["*.md"]
    strip_prefix: content
  assets:
    patterns: ["static/*"]
    strip_prefix: static
  index:
    patterns: ["*.md"]
    file: index.json
  passthrough:
    enabled: true
retry:
  mode: exponential
  initial_delay: 100ms
  max_delay: 2s
  max_retries: 2
logging:
  level: info
  format: text
# metrics:
#   textfile: ./metrics/sitegen.prom
# events:
#   nats_url: ${NATS_URL}
#   subject: sitegen.build
#   verbose: false   # also publish per-file events
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext(ferrors.KeyPath, configPath).
			Build()
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
