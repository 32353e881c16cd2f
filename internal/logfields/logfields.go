package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPhase      = "phase"
	KeyDurationMS = "duration_ms"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyRoot       = "root"
	KeyRule       = "rule"
	KeyPattern    = "pattern"
	KeyGroup      = "group"
	KeyBuilder    = "builder"
	KeyFiles      = "files"
	KeyOutput     = "output"
	KeyAttempt    = "attempt"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Phase(name string) slog.Attr     { return slog.String(KeyPhase, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func File(rel string) slog.Attr       { return slog.String(KeyFile, rel) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Root(r string) slog.Attr         { return slog.String(KeyRoot, r) }
func Rule(r string) slog.Attr         { return slog.String(KeyRule, r) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func Group(g string) slog.Attr        { return slog.String(KeyGroup, g) }
func Builder(name string) slog.Attr   { return slog.String(KeyBuilder, name) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }

// Duration renders d as fractional milliseconds under KeyDurationMS.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
