package glob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"*.md", "a.md", true},
		{"*.md", "content/posts/a.md", true},
		{"*.md", "a.md.bak", false},
		{"posts/*", "posts/2024/hello.md", true},
		{"posts/*", "content/posts/a.md", false},
		{"content/drafts/*", "content/drafts/b.md", true},
		{"*", "", true},
		{"README.md", "README.md", true},
		{"README.md", "readme.md", false},
		{"a.b", "axb", false},
		{"[x](y)+?", "[x](y)+?", true},
		{"static/*.css", "static/css/site.css", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Match(tt.pattern, tt.input), "%q ~ %q", tt.pattern, tt.input)
	}
}

func TestMatcherString(t *testing.T) {
	m := Compile("posts/*")
	assert.Equal(t, "posts/*", m.String())
	assert.True(t, HasWildcard(m.String()))
	assert.False(t, HasWildcard("posts/a.md"))
}
