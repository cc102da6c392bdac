package assistant

import (
	"fmt"
	"strconv"

	"github.com/seu-repo/appliance-store/internal/domain"
)

const (
	greetingSentence = "Hello! How can I assist you today?"
	unknownSentence  = "I am not sure how to help with that request."
	cartSentence     = "Opening your shopping cart."
	filterSentence   = "Filtering products for you."
)

// Describe returns the sentence spoken back for action. It is total:
// every action, including malformed ones, yields a non-empty sentence.
func Describe(action domain.Action) string {
	switch action.Kind {
	case domain.ActionGreeting:
		return greetingSentence
	case domain.ActionShowCart, domain.ActionSortAndFilter:
		return describeDirective(action)
	default:
		return unknownSentence
	}
}

func describeDirective(action domain.Action) string {
	if action.Kind == domain.ActionShowCart {
		return cartSentence
	}

	p := action.Params
	if p == nil {
		return filterSentence
	}

	switch p.SortBy {
	case domain.SortByPrice:
		if p.Order == domain.SortDesc {
			return "Sorting products by price high to low."
		}
		return "Sorting products by price low to high."
	case domain.SortByName:
		if p.Order == domain.SortDesc {
			return "Sorting products by name Z to A."
		}
		return "Sorting products by name A to Z."
	}

	if f := p.Filter; f != nil {
		switch {
		case f.PriceLessThan != nil:
			return fmt.Sprintf("Showing items less than %s dollars.", strconv.FormatFloat(*f.PriceLessThan, 'f', -1, 64))
		case f.Category != "":
			return fmt.Sprintf("Here are the %s you asked for.", f.Category)
		case f.SearchTerm != "":
			return fmt.Sprintf("Searching for %s.", f.SearchTerm)
		}
	}
	return filterSentence
}

// commands is the catalog served by the commands endpoint.
var commands = []domain.AssistantCommand{
	{Action: domain.ActionShowCart, Description: "Show the shopper's cart"},
	{Action: domain.ActionSortAndFilter, Description: "Sort and/or filter products", Params: []string{"sortBy", "order", "filter"}},
	{Action: domain.ActionGreeting, Description: "Greet the shopper", Params: []string{"query"}},
	{Action: domain.ActionUnknown, Description: "Unknown or unsupported command", Params: []string{"query"}},
}
