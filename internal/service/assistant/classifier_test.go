package assistant

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/seu-repo/appliance-store/internal/domain"
)

func price(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  domain.Action
	}{
		{"open my cart", domain.ShowCart()},
		{"Show me the CART please", domain.ShowCart()},
		{"please sort the products by price descending", domain.SortProducts(domain.SortByPrice, domain.SortDesc)},
		{"sort by price", domain.SortProducts(domain.SortByPrice, domain.SortAsc)},
		{"sort by name", domain.SortProducts(domain.SortByName, domain.SortAsc)},
		{"sort by name descending", domain.SortProducts(domain.SortByName, domain.SortDesc)},
		{"sort by name and price", domain.SortProducts(domain.SortByPrice, domain.SortAsc)},
		{"show me items less than 50 dollars", domain.FilterProducts(domain.ProductFilter{PriceLessThan: price(50)})},
		{"anything less than 12.99", domain.FilterProducts(domain.ProductFilter{PriceLessThan: price(12)})},
		{"show appliances", domain.FilterProducts(domain.ProductFilter{Category: "appliances"})},
		{"please show me washing machines", domain.FilterProducts(domain.ProductFilter{Category: "washing machines"})},
		{"show items less than cheap", domain.FilterProducts(domain.ProductFilter{Category: "items less than cheap"})},
		{"hello there", domain.Greeting("hello there")},
		{"Good Morning!", domain.Greeting("Good Morning!")},
		{"asdkjasd", domain.Unknown("asdkjasd")},
		{"show", domain.Unknown("show")},
		{"", domain.Unknown("")},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestClassify_GreetingMatchesWholeWords(t *testing.T) {
	// "this" contains "hi" and "you" contains "yo"; neither is a greeting.
	assert.Equal(t, domain.Unknown("is this yours"), Classify("is this yours"))
	assert.Equal(t, domain.Greeting("hey you"), Classify("hey you"))
}

func TestClassify_RuleNames(t *testing.T) {
	_, rule := classify("sort by price")
	assert.Equal(t, "sort_price", rule)

	_, rule = classify("nothing matches here")
	assert.Equal(t, "unknown", rule)
}

func TestClassify_CartAlwaysWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(rapid.SampledFrom(queryWords), 0, 10).Draw(t, "words")
		at := rapid.IntRange(0, len(words)).Draw(t, "at")
		cart := rapid.SampledFrom([]string{"cart", "Cart", "CART", "cArT"}).Draw(t, "cart")

		query := append(append(append([]string{}, words[:at]...), cart), words[at:]...)
		got := Classify(strings.Join(query, " "))
		if got.Kind != domain.ActionShowCart {
			t.Fatalf("query %q classified as %s", strings.Join(query, " "), got.Kind)
		}
	})
}

func TestClassify_AlwaysExactlyOneKnownKind(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		got := Classify(queryGen().Draw(t, "query"))
		switch got.Kind {
		case domain.ActionShowCart:
			if got.Params != nil {
				t.Fatalf("show_cart carries params: %+v", got.Params)
			}
		case domain.ActionSortAndFilter, domain.ActionGreeting, domain.ActionUnknown:
			if got.Params == nil {
				t.Fatalf("%s without params", got.Kind)
			}
		default:
			t.Fatalf("unexpected kind %q", got.Kind)
		}
	})
}

func TestAction_JSONOmitsAbsentFields(t *testing.T) {
	tests := []struct {
		name   string
		result domain.AssistantResult
		want   string
	}{
		{
			name:   "cart has no params",
			result: domain.AssistantResult{Action: domain.ShowCart(), ResponseText: cartSentence},
			want:   `{"action":"show_cart","responseText":"Opening your shopping cart.","audio":""}`,
		},
		{
			name:   "threshold only",
			result: domain.AssistantResult{Action: Classify("less than 50"), ResponseText: "x", Audio: "data:audio/mpeg;base64,AA=="},
			want:   `{"action":"sort_and_filter","params":{"filter":{"priceLessThan":50}},"responseText":"x","audio":"data:audio/mpeg;base64,AA=="}`,
		},
		{
			name:   "sort only",
			result: domain.AssistantResult{Action: Classify("sort by name desc"), ResponseText: "x"},
			want:   `{"action":"sort_and_filter","params":{"sortBy":"name","order":"desc"},"responseText":"x","audio":""}`,
		},
		{
			name:   "unknown keeps raw query",
			result: domain.AssistantResult{Action: Classify("Blorp?"), ResponseText: "x"},
			want:   `{"action":"unknown","params":{"query":"Blorp?"},"responseText":"x","audio":""}`,
		},
		{
			name:   "empty query omits params",
			result: domain.AssistantResult{Action: Classify(""), ResponseText: "x"},
			want:   `{"action":"unknown","responseText":"x","audio":""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.result)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}
