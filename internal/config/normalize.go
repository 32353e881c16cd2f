package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NormalizationResult captures adjustments and warnings from the normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and path fields prior to default application.
// It mutates cfg in place and returns a result describing any coercions.
func NormalizeConfig(cfg *Config) (*NormalizationResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}

	cfg.Sources = trimStringSlice("sources", cfg.Sources, res)
	cfg.Ignore = trimStringSlice("ignore", cfg.Ignore, res)
	normalizeOutput(&cfg.Output, res)

	if raw := strings.TrimSpace(string(cfg.Retry.Mode)); raw != "" {
		mode := NormalizeRetryBackoff(raw)
		switch {
		case mode == "":
			res.Warnings = append(res.Warnings, warnUnknown("retry.mode", raw, string(RetryBackoffExponential)))
		case mode != cfg.Retry.Mode:
			res.Warnings = append(res.Warnings, warnChanged("retry.mode", cfg.Retry.Mode, mode))
		}
		cfg.Retry.Mode = mode
	}
	if raw := strings.TrimSpace(string(cfg.Logging.Level)); raw != "" {
		lvl := NormalizeLogLevel(raw)
		if lvl == "" {
			res.Warnings = append(res.Warnings, warnUnknown("logging.level", raw, string(LogLevelInfo)))
		}
		cfg.Logging.Level = lvl
	}
	if raw := strings.TrimSpace(string(cfg.Logging.Format)); raw != "" {
		f := NormalizeLogFormat(raw)
		if f == "" {
			res.Warnings = append(res.Warnings, warnUnknown("logging.format", raw, string(LogFormatText)))
		}
		cfg.Logging.Format = f
	}
	return res, nil
}

func normalizeOutput(o *OutputConfig, res *NormalizationResult) {
	before := strings.TrimSpace(o.Directory)
	if before == "" {
		o.Directory = ""
		return
	}
	cleaned := filepath.Clean(before)
	if cleaned != o.Directory {
		res.Warnings = append(res.Warnings, warnChanged("output.directory", o.Directory, cleaned))
		o.Directory = cleaned
	}
}

// trimStringSlice removes empty entries (after trimming whitespace) from an order-sensitive list.
// Duplicates are kept: discovery deduplicates files, not roots.
func trimStringSlice(label string, in []string, res *NormalizationResult) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		if tp := strings.TrimSpace(p); tp != "" {
			out = append(out, tp)
		}
	}
	if len(out) != len(in) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized %s list (%d -> %d entries)", label, len(in), len(out)))
	}
	return out
}

func warnChanged[T ~string](field string, from, to T) string {
	return fmt.Sprintf("%s normalized from %q to %q", field, string(from), string(to))
}

func warnUnknown(field, value, fallback string) string {
	return fmt.Sprintf("unknown %s %q, using %q", field, value, fallback)
}
