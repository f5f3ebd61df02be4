package entities

// IntentType classifies a single user message.
type IntentType string

const (
	IntentProductSearch       IntentType = "product_search"
	IntentGeneralChat         IntentType = "general_chat"
	IntentClarificationNeeded IntentType = "clarification_needed"
	IntentUnreachableError    IntentType = "unreachable_error"
	IntentShortlistOp         IntentType = "shortlist_op"
	IntentCompare             IntentType = "compare"
)

// BudgetSensitivity describes how hard a stated budget should bind.
type BudgetSensitivity string

const (
	BudgetSensitivityLow    BudgetSensitivity = "low"
	BudgetSensitivityMedium BudgetSensitivity = "medium"
	BudgetSensitivityHigh   BudgetSensitivity = "high"
)

// Intent is the structured interpretation of one message. It lives for a
// single request; accumulated state belongs to UserContext.
type Intent struct {
	Type              IntentType        `json:"type"`
	Category          string            `json:"category,omitempty"`
	Brand             string            `json:"brand,omitempty"`
	MaxPrice          float64           `json:"max_price,omitempty"`
	Certifications    []string          `json:"certifications,omitempty"`
	Features          []string          `json:"features,omitempty"`
	RidingStyle       string            `json:"riding_style,omitempty"`
	Vehicle           string            `json:"vehicle,omitempty"`
	BudgetSensitivity BudgetSensitivity `json:"budget_sensitivity,omitempty"`
}
