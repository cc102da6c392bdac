package domain

// ActionKind identifies the UI directive resolved from an assistant query.
type ActionKind string

const (
	ActionShowCart      ActionKind = "show_cart"
	ActionSortAndFilter ActionKind = "sort_and_filter"
	ActionGreeting      ActionKind = "greeting"
	ActionUnknown       ActionKind = "unknown"
)

type SortField string

const (
	SortByName  SortField = "name"
	SortByPrice SortField = "price"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ProductFilter is the filter part of a sort_and_filter directive.
// Only the fields set by the matching rule are populated.
type ProductFilter struct {
	Category      string   `json:"category,omitempty"`
	PriceLessThan *float64 `json:"priceLessThan,omitempty"`
	SearchTerm    string   `json:"searchTerm,omitempty"`
}

// ActionParams carries the optional parameters of an Action. Sort and filter
// fields belong to sort_and_filter, Query to greeting and unknown.
type ActionParams struct {
	SortBy SortField      `json:"sortBy,omitempty"`
	Order  SortOrder      `json:"order,omitempty"`
	Filter *ProductFilter `json:"filter,omitempty"`
	Query  string         `json:"query,omitempty"`
}

// Action is the single directive produced for every assistant query.
// Use the constructors below; they keep Params in the shape Kind expects.
type Action struct {
	Kind   ActionKind    `json:"action"`
	Params *ActionParams `json:"params,omitempty"`
}

func ShowCart() Action {
	return Action{Kind: ActionShowCart}
}

func SortProducts(by SortField, order SortOrder) Action {
	return Action{
		Kind:   ActionSortAndFilter,
		Params: &ActionParams{SortBy: by, Order: order},
	}
}

func FilterProducts(filter ProductFilter) Action {
	return Action{
		Kind:   ActionSortAndFilter,
		Params: &ActionParams{Filter: &filter},
	}
}

func Greeting(query string) Action {
	return Action{Kind: ActionGreeting, Params: queryParams(query)}
}

func Unknown(query string) Action {
	return Action{Kind: ActionUnknown, Params: queryParams(query)}
}

// queryParams leaves Params nil for an empty query so it is omitted on the wire.
func queryParams(query string) *ActionParams {
	if query == "" {
		return nil
	}
	return &ActionParams{Query: query}
}

// Filter returns the directive's filter, or nil when none was set.
func (a Action) Filter() *ProductFilter {
	if a.Params == nil {
		return nil
	}
	return a.Params.Filter
}

// AssistantResult is the wire-level response of the query endpoint.
// Audio is empty when speech synthesis failed; that is still a valid result.
type AssistantResult struct {
	Action
	ResponseText string `json:"responseText"`
	Audio        string `json:"audio"`
}

func (r AssistantResult) HasAudio() bool {
	return r.Audio != ""
}

// Transcription is what the speech transcriber recognised in a recording.
type Transcription struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// NoSpeechMessage is reported when a recording yields no usable text.
const NoSpeechMessage = "Could not recognize speech."

// SpeechResult is the outcome of the voice path: transcription followed by
// query handling. Error is set, and Response left nil, when nothing was recognised.
type SpeechResult struct {
	Text       string           `json:"text"`
	Confidence *float64         `json:"confidence,omitempty"`
	Response   *AssistantResult `json:"response,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// AssistantCommand describes one supported assistant command.
type AssistantCommand struct {
	Action      ActionKind `json:"action"`
	Description string     `json:"description"`
	Params      []string   `json:"params,omitempty"`
}
