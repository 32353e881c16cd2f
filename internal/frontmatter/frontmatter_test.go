package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: Hello\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Hello\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_EmptyFrontmatter(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\nbody"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("body"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestParse_DecodesFields(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: \" Hello \"\ndraft: true\ntags: [a, b]\ndate: 2024-05-01\nweight: 3\n---\nBody\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, "Hello", doc.Fields.String("title"))
	require.True(t, doc.Fields.Bool("draft"))
	require.Equal(t, []string{"a", "b"}, doc.Fields.Strings("tags"))
	require.Equal(t, "3", doc.Fields.String("weight"))
	require.Equal(t, []byte("Body\n"), doc.Body)

	date, ok := doc.Fields.Time("date")
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), date)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: [unclosed\n---\n"))
	require.Error(t, err)
}

func TestFields_Missing(t *testing.T) {
	var f Fields
	require.Empty(t, f.String("x"))
	require.False(t, f.Bool("x"))
	require.Nil(t, f.Strings("x"))
	_, ok := f.Time("x")
	require.False(t, ok)
}

func TestFields_SingleStringList(t *testing.T) {
	require.Equal(t, []string{"go"}, Fields{"tags": "go"}.Strings("tags"))
}
