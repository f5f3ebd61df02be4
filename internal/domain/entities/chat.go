package entities

// Confidence buckets the strength of the top ranking score.
type Confidence string

const (
	ConfidenceStrong      Confidence = "strong"
	ConfidenceMedium      Confidence = "medium"
	ConfidenceApproximate Confidence = "approximate"
	ConfidenceLow         Confidence = "low"
)

// QuickFilter is a suggested narrowing action rendered as a clickable query.
type QuickFilter struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

// ChatResponse is the payload returned for one chat message.
type ChatResponse struct {
	Reply            string        `json:"reply"`
	Products         []*Product    `json:"products"`
	SuggestedPrompts []string      `json:"suggested_prompts,omitempty"`
	QuickFilters     []QuickFilter `json:"quick_filters,omitempty"`
	ContextUpdated   bool          `json:"context_updated"`
	ShortlistCount   int           `json:"shortlist_count"`
	Confidence       Confidence    `json:"confidence"`
}
