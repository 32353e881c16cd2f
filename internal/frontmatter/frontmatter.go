// Package frontmatter reads the YAML header of markdown sources.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a source split into its front matter and body.
type Document struct {
	Raw    []byte // front matter without delimiters
	Body   []byte
	Fields Fields
	Had    bool // whether the source started with front matter
}

// Parse splits content and decodes its front matter.
func Parse(content []byte) (Document, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Document{}, err
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter: %w", err)
	}
	return Document{Raw: raw, Body: body, Fields: fields, Had: had}, nil
}

// Split separates `---` delimited front matter from the body. LF and CRLF
// sources are both accepted. Without a leading delimiter, had is false and
// body is the full input.
func Split(content []byte) (frontmatter, body []byte, had bool, err error) {
	nl := newline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line without a newline.
		if tail := []byte(nl + "---"); bytes.HasSuffix(content, tail) && len(content)-len(tail) >= start {
			return content[start : len(content)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return content[start : start+idx+len(nl)], content[start+idx+len(closeSeq):], true, nil
}

// ParseYAML parses raw YAML front matter (without delimiters) into Fields.
func ParseYAML(frontmatter []byte) (Fields, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return Fields{}, nil
	}
	var fields Fields
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = Fields{}
	}
	return fields, nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Fields holds decoded front matter values.
type Fields map[string]any

// String returns the value of key as a trimmed string. Scalars are formatted.
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the value of key as a bool; missing or non-bool values are false.
func (f Fields) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

// Strings returns key as a string list. A single string becomes a one-element list.
func (f Fields) Strings(key string) []string {
	switch v := f[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Time returns key as a time. YAML timestamps and RFC 3339 or YYYY-MM-DD
// strings are accepted.
func (f Fields) Time(key string) (time.Time, bool) {
	switch v := f[key].(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, time.DateOnly} {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
