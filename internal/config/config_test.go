package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "sitegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AppliesDefaultsAndResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
sources: [content, " static ", ""]
ignore: [content/drafts/*]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"content", "static"}, cfg.Sources)
	assert.Equal(t, dir, cfg.BaseDirectory)
	assert.Equal(t, []string{filepath.Join(dir, "content"), filepath.Join(dir, "static")}, cfg.SourceRoots())
	assert.Equal(t, []string{filepath.Join(dir, "content", "drafts", "*")}, cfg.IgnoreRules())
	assert.Equal(t, filepath.Join(dir, DefaultOutputDirectory), cfg.OutputDir())

	assert.Equal(t, RetryBackoffExponential, cfg.Retry.Mode)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.InitialDelay)
	assert.Equal(t, 2, *cfg.Retry.MaxRetries)
	assert.Equal(t, []string{"*.md"}, cfg.Builders.Markdown.Patterns)
	assert.Equal(t, []string{"*.md"}, cfg.Builders.Index.Patterns)
	assert.True(t, BoolDefault(cfg.Builders.Passthrough.Enabled, true))
	assert.Equal(t, DefaultEventSubject, cfg.Events.Subject)
	assert.False(t, cfg.Events.Verbose)
}

func TestLoad_EventsVerbose(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
sources: [content]
events:
  nats_url: nats://127.0.0.1:4222
  subject: site.events
  verbose: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Events.Verbose)
	assert.Equal(t, "site.events", cfg.Events.Subject)
}

func TestLoad_ExpandsEnvironmentAndRelativeBase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SITEGEN_TEST_OUT", "dist")
	path := writeConfig(t, dir, `
base_directory: site
sources: [pages]
output:
  directory: ${SITEGEN_TEST_OUT}
retry:
  mode: FIXED
  initial_delay: 50ms
  max_delay: 1s
  max_retries: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "site"), cfg.BaseDirectory)
	assert.Equal(t, filepath.Join(dir, "site", "dist"), cfg.OutputDir())
	assert.Equal(t, RetryBackoffFixed, cfg.Retry.Mode)
	assert.Equal(t, 50*time.Millisecond, cfg.Retry.InitialDelay)
	assert.Equal(t, 0, *cfg.Retry.MaxRetries)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "sources: [unterminated")
		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	})

	t.Run("no sources", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "output:\n  directory: public\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source root")
	})
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitegen.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"content", "static"}, cfg.Sources)
	assert.Equal(t, "content", cfg.Builders.Markdown.StripPrefix)
}

func TestResolvePath_AbsoluteUntouched(t *testing.T) {
	cfg := &Config{BaseDirectory: "/srv/site"}
	assert.Equal(t, "/etc/x", cfg.ResolvePath("/etc/x/"))
	assert.Equal(t, "/srv/site/content", cfg.ResolvePath("content"))
	assert.Equal(t, "/srv/site", cfg.BaseDir())
}
