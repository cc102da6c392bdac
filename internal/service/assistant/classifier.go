package assistant

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/seu-repo/appliance-store/internal/domain"
)

var (
	priceThresholdPattern = regexp.MustCompile(`less than (\d+)`)
	categoryPattern       = regexp.MustCompile(`\bshow\s+(.+)`)
	greetingPattern       = compilePhrases([]string{
		"hello", "hi", "hey", "greetings", "good morning", "good afternoon",
		"good evening", "howdy", "yo", "sup", "good day",
	})
)

// rule inspects the normalized query q (and the untouched raw query) and
// reports whether it produced an action.
type rule struct {
	name  string
	match func(q, raw string) (domain.Action, bool)
}

// rules are evaluated in order; the first match wins. A query mentioning
// both price and name sorts by price.
var rules = []rule{
	{"cart", matchCart},
	{"sort_price", matchSort("price", domain.SortByPrice)},
	{"sort_name", matchSort("name", domain.SortByName)},
	{"price_threshold", matchPriceThreshold},
	{"category", matchCategory},
	{"greeting", matchGreeting},
}

// Classify resolves a raw shopper query into exactly one Action.
// It never fails: anything unmatched is Unknown.
func Classify(raw string) domain.Action {
	action, _ := classify(raw)
	return action
}

// classify also reports the name of the matching rule, or "unknown".
func classify(raw string) (domain.Action, string) {
	q := Normalize(raw)
	for _, r := range rules {
		if action, ok := r.match(q, raw); ok {
			return action, r.name
		}
	}
	return domain.Unknown(raw), "unknown"
}

func matchCart(q, _ string) (domain.Action, bool) {
	if strings.Contains(q, "cart") {
		return domain.ShowCart(), true
	}
	return domain.Action{}, false
}

func matchSort(keyword string, field domain.SortField) func(q, raw string) (domain.Action, bool) {
	return func(q, _ string) (domain.Action, bool) {
		if !strings.Contains(q, "sort") || !strings.Contains(q, keyword) {
			return domain.Action{}, false
		}
		order := domain.SortAsc
		if strings.Contains(q, "desc") {
			order = domain.SortDesc
		}
		return domain.SortProducts(field, order), true
	}
}

func matchPriceThreshold(q, _ string) (domain.Action, bool) {
	m := priceThresholdPattern.FindStringSubmatch(q)
	if m == nil {
		return domain.Action{}, false
	}
	limit, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domain.Action{}, false
	}
	return domain.FilterProducts(domain.ProductFilter{PriceLessThan: &limit}), true
}

func matchCategory(q, _ string) (domain.Action, bool) {
	if strings.Contains(q, "cart") {
		return domain.Action{}, false
	}
	m := categoryPattern.FindStringSubmatch(q)
	if m == nil {
		return domain.Action{}, false
	}
	category := strings.TrimSpace(m[1])
	if category == "" {
		return domain.Action{}, false
	}
	return domain.FilterProducts(domain.ProductFilter{Category: category}), true
}

// matchGreeting scans the raw query, not q: normalization may strip
// greeting words.
func matchGreeting(_, raw string) (domain.Action, bool) {
	if greetingPattern.MatchString(strings.ToLower(raw)) {
		return domain.Greeting(raw), true
	}
	return domain.Action{}, false
}
