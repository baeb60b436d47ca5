// Package conversation holds the chat data model and the session store: a
// bounded message transcript, a single context slot, a processing flag, and
// a session identifier, with optional snapshot persistence.
package conversation

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// CardType tags the structured payloads an assistant reply can carry.
type CardType string

const (
	CardSuggestion      CardType = "suggestion"
	CardRFQSummary      CardType = "rfq_summary"
	CardQuoteComparison CardType = "quote_comparison"
	CardVesselInfo      CardType = "vessel_info"
	CardProductList     CardType = "product_list"
	// CardUnknown is the first-class fallback for types this build does not
	// recognize; the wire type string and payload are preserved.
	CardUnknown CardType = "unknown"
)

var knownCardTypes = map[CardType]bool{
	CardSuggestion:      true,
	CardRFQSummary:      true,
	CardQuoteComparison: true,
	CardVesselInfo:      true,
	CardProductList:     true,
}

// Card is a structured payload attached to an assistant message. Data is
// opaque to this layer; renderers dispatch on Variant.
type Card struct {
	Type  CardType       `json:"type"`
	Title string         `json:"title"`
	Data  map[string]any `json:"data,omitempty"`
}

// Variant returns the card's dispatch tag, folding unrecognized wire types
// into CardUnknown. Type itself keeps the original string.
func (c Card) Variant() CardType {
	if knownCardTypes[c.Type] {
		return c.Type
	}
	return CardUnknown
}

// ActionVariant selects the visual weight of a suggested action.
type ActionVariant string

const (
	ActionPrimary ActionVariant = "primary"
	ActionOutline ActionVariant = "outline"
)

// Action is a suggested next step the user can trigger. Executing it calls
// the backend with the Action identifier and Params.
type Action struct {
	ID      string         `json:"id"`
	Label   string         `json:"label"`
	Variant ActionVariant  `json:"variant"`
	Action  string         `json:"action"`
	Params  map[string]any `json:"params,omitempty"`
}

// Message is one transcript entry. Immutable once appended to the store.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Cards     []Card    `json:"cards,omitempty"`
	Actions   []Action  `json:"actions,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ContextType tags the single active conversation context.
type ContextType string

const (
	ContextNone       ContextType = ""
	ContextVessel     ContextType = "vessel"
	ContextRFQ        ContextType = "rfq"
	ContextComparison ContextType = "comparison"
	ContextOrder      ContextType = "order"
)

// Context is the side-payload pinned to a session. At most one is active;
// updates replace it wholesale.
type Context struct {
	Type ContextType    `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// IsZero reports whether no context is active.
func (c Context) IsZero() bool { return c.Type == ContextNone && c.Data == nil }
