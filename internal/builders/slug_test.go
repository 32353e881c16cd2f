package builders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":     "hello-world",
		"Première note":   "premiere-note",
		"  --Go 1.24!-- ": "go-1-24",
		"already-slugged": "already-slugged",
		"Ünïcödé_Fïlé":    "unicode-file",
		"":                "",
		"!!!":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSummarize(t *testing.T) {
	html := []byte("<h1>Title</h1>\n<p>One &amp; two</p><script>var x;</script><pre><code>skip me</code></pre><p>three</p>")
	assert.Equal(t, "Title One & two three", summarize(html, 0))
	assert.Equal(t, "Title One…", summarize(html, 10))
	assert.Equal(t, "Supercal", summarize([]byte("<p>Supercalifragilistic</p>"), 8))
}
