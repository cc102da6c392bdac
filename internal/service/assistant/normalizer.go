package assistant

import (
	"regexp"
	"sort"
	"strings"
)

// stopwords is a generic list of English function words. It must never
// contain a word the classifier keys on (cart, sort, price, name, desc,
// less, than, show).
var stopwords = toSet(
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your", "yours",
	"yourself", "yourselves", "he", "him", "his", "himself", "she", "her", "hers",
	"herself", "it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "these", "those", "am", "is", "are",
	"was", "were", "be", "been", "being", "have", "has", "had", "having", "do", "does",
	"did", "doing", "a", "an", "the", "and", "but", "if", "or", "because", "as", "until",
	"while", "of", "at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from", "up", "down",
	"in", "out", "on", "off", "over", "under", "again", "further", "then", "once", "here",
	"there", "when", "where", "why", "how", "all", "both", "each", "few", "more", "most",
	"other", "some", "such", "no", "nor", "not", "only", "own", "same", "so", "too",
	"very", "s", "t", "can", "will", "just", "don", "should", "now",
)

// fillerPhrases are politeness and filler phrases stripped on top of the
// generic stopwords. Standalone "show" is deliberately absent: the
// category rule needs it, while "show me" is still removed as a phrase.
var fillerPhrases = []string{
	"please", "could you", "would you", "can you", "show me", "i want", "i need", "find",
	"the", "a", "an", "to", "for", "me", "my", "with", "of", "on", "in", "at", "by", "from",
	"and", "or", "that", "this", "these", "those", "just", "only", "now", "all", "any",
	"some", "like", "about", "give", "get", "tell", "list", "display", "see", "let me",
	"let", "how", "much", "many", "which", "what", "is", "are", "was", "were", "be", "as",
	"it", "do", "does", "did", "will", "should", "could", "would", "may", "might", "must",
	"shall", "want", "need", "help", "assist", "assist me", "help me",
}

var fillerPattern = compilePhrases(fillerPhrases)

// Normalize lowercases raw, drops stopwords and filler phrases, and
// collapses whitespace. Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	q := strings.ToLower(raw)
	for {
		next := normalizePass(q)
		if next == q {
			return next
		}
		q = next
	}
}

func normalizePass(q string) string {
	tokens := strings.Fields(q)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, ok := stopwords[tok]; !ok {
			kept = append(kept, tok)
		}
	}
	q = fillerPattern.ReplaceAllString(strings.Join(kept, " "), " ")
	return strings.Join(strings.Fields(q), " ")
}

// compilePhrases builds one word-boundary anchored, case-insensitive
// alternation. Longer phrases come first so "assist me" wins over "assist".
func compilePhrases(phrases []string) *regexp.Regexp {
	sorted := append([]string(nil), phrases...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, len(sorted))
	for i, p := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
