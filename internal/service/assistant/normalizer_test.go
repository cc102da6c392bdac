package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \t\n ", ""},
		{"lowercases and collapses", "  Sort   By PRICE ", "sort price"},
		{"drops politeness", "please sort the products by price descending", "sort products price descending"},
		{"drops pronoun after show", "show me items less than 50 dollars", "show items less than 50 dollars"},
		{"keeps standalone show", "show appliances", "show appliances"},
		{"multi word filler", "could you help me find a fridge", "fridge"},
		{"stopwords before phrases", "Can You SHOW ME the cart", "show cart"},
		{"phrase case insensitive", "PLEASE Assist Me", ""},
		{"does not fragment words", "another theme", "another theme"},
		{"only fillers", "please could you", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_KeepsClassifierKeywords(t *testing.T) {
	for _, kw := range []string{"cart", "sort", "price", "name", "desc", "less", "than", "show"} {
		_, isStopword := stopwords[kw]
		assert.False(t, isStopword, "%q must not be a stopword", kw)
		assert.Equal(t, kw, Normalize(kw))
	}
}

var queryWords = []string{
	"please", "show", "me", "the", "cart", "sort", "by", "price", "name", "desc",
	"less", "than", "50", "dollars", "fridge", "hello", "could", "you", "can", "help",
	"assist", "let", "a", "an", "washing", "machines", "i", "want", "need", "of",
}

func queryGen() *rapid.Generator[string] {
	word := rapid.OneOf(
		rapid.SampledFrom(queryWords),
		rapid.StringMatching(`[A-Za-z0-9]{1,8}`),
	)
	sep := rapid.SampledFrom([]string{" ", "  ", "\t", " \n"})
	return rapid.Custom(func(t *rapid.T) string {
		words := rapid.SliceOfN(word, 0, 12).Draw(t, "words")
		var b strings.Builder
		for i, w := range words {
			if i > 0 {
				b.WriteString(sep.Draw(t, "sep"))
			}
			b.WriteString(w)
		}
		return b.String()
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := queryGen().Draw(t, "query")
		once := Normalize(q)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent: %q -> %q -> %q", q, once, twice)
		}
	})
}

func TestNormalize_OutputIsTrimmedLowercase(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		out := Normalize(queryGen().Draw(t, "query"))
		if out != strings.TrimSpace(out) || strings.Contains(out, "  ") {
			t.Fatalf("output not collapsed: %q", out)
		}
		if out != strings.ToLower(out) {
			t.Fatalf("output not lowercase: %q", out)
		}
	})
}
