package assistant

import (
	"testing"

	"github.com/seu-repo/appliance-store/internal/domain"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		action domain.Action
		want   string
	}{
		{"cart", domain.ShowCart(), "Opening your shopping cart."},
		{"price asc", domain.SortProducts(domain.SortByPrice, domain.SortAsc), "Sorting products by price low to high."},
		{"price desc", domain.SortProducts(domain.SortByPrice, domain.SortDesc), "Sorting products by price high to low."},
		{"name asc", domain.SortProducts(domain.SortByName, domain.SortAsc), "Sorting products by name A to Z."},
		{"name desc", domain.SortProducts(domain.SortByName, domain.SortDesc), "Sorting products by name Z to A."},
		{"threshold", domain.FilterProducts(domain.ProductFilter{PriceLessThan: price(50)}), "Showing items less than 50 dollars."},
		{"fractional threshold", domain.FilterProducts(domain.ProductFilter{PriceLessThan: price(19.5)}), "Showing items less than 19.5 dollars."},
		{"category", domain.FilterProducts(domain.ProductFilter{Category: "fridges"}), "Here are the fridges you asked for."},
		{"search term", domain.FilterProducts(domain.ProductFilter{SearchTerm: "samsung"}), "Searching for samsung."},
		{"empty filter", domain.FilterProducts(domain.ProductFilter{}), "Filtering products for you."},
		{"no params", domain.Action{Kind: domain.ActionSortAndFilter}, "Filtering products for you."},
		{"greeting", domain.Greeting("hi"), "Hello! How can I assist you today?"},
		{"unknown", domain.Unknown("??"), "I am not sure how to help with that request."},
		{"unrecognised kind", domain.Action{Kind: "read_description"}, "I am not sure how to help with that request."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.action); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribe_Priority(t *testing.T) {
	// Sort beats threshold beats category beats search term.
	all := domain.Action{
		Kind: domain.ActionSortAndFilter,
		Params: &domain.ActionParams{
			SortBy: domain.SortByName,
			Order:  domain.SortDesc,
			Filter: &domain.ProductFilter{PriceLessThan: price(10), Category: "tvs", SearchTerm: "lg"},
		},
	}
	if got := Describe(all); got != "Sorting products by name Z to A." {
		t.Errorf("sort should win, got %q", got)
	}

	all.Params.SortBy = ""
	if got := Describe(all); got != "Showing items less than 10 dollars." {
		t.Errorf("threshold should win, got %q", got)
	}

	all.Params.Filter.PriceLessThan = nil
	if got := Describe(all); got != "Here are the tvs you asked for." {
		t.Errorf("category should win, got %q", got)
	}

	all.Params.Filter.Category = ""
	if got := Describe(all); got != "Searching for lg." {
		t.Errorf("search term should win, got %q", got)
	}
}
