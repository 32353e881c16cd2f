package builders

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// summarize returns the visible text of rendered HTML, whitespace collapsed
// and cut at the last word boundary before limit runes.
func summarize(rendered []byte, limit int) string {
	z := html.NewTokenizer(bytes.NewReader(rendered))
	var words []string
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return truncateWords(words, limit)
		case html.StartTagToken:
			if a := tagAtom(z); a == atom.Script || a == atom.Style || a == atom.Pre {
				skip++
			}
		case html.EndTagToken:
			if a := tagAtom(z); (a == atom.Script || a == atom.Style || a == atom.Pre) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				words = append(words, strings.Fields(string(z.Text()))...)
			}
		}
	}
}

func tagAtom(z *html.Tokenizer) atom.Atom {
	name, _ := z.TagName()
	return atom.Lookup(name)
}

func truncateWords(words []string, limit int) string {
	var b strings.Builder
	n := 0
	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		extra := wl
		if b.Len() > 0 {
			extra++
		}
		if limit > 0 && n+extra > limit {
			if b.Len() == 0 {
				return string([]rune(w)[:limit])
			}
			b.WriteString("…")
			return b.String()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
		n += extra
	}
	return b.String()
}
