package model

import "time"

// Conversation is one inbound/outbound message exchange. Rows are append-only
// from the responder's perspective; rating and training flags are set by the
// admin tooling and never mutated here.
type Conversation struct {
	ID          int64
	PhoneNumber string // customer number, digits-only
	BrokerEmail string
	UserMessage *string // nil for manual resends
	Response    string
	IsError     bool // reply came from the error fallback path
	Rating      *int16
	Training    bool
	CreatedAt   time.Time
}

// Direction of a webhook message relative to the business.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Sentiment is a best-effort annotation over recent customer messages.
// Zero value is not useful; use NeutralSentiment for defaults.
type Sentiment struct {
	Overall  string `json:"overall"`  // positive | negative | neutral
	Urgency  string `json:"urgency"`  // high | medium | low
	Interest string `json:"interest"` // high | moderate | low
}

// NeutralSentiment is the default when analysis is unavailable or fails.
func NeutralSentiment() Sentiment {
	return Sentiment{Overall: "neutral", Urgency: "medium", Interest: "moderate"}
}

// ConversationContext is the derived, ephemeral view of a phone number's
// recent history. It is recomputed from the store and cached briefly; it is
// never persisted as its own entity.
type ConversationContext struct {
	PhoneNumber     string
	LastInteraction *time.Time
	History         []Conversation // oldest first
	Sentiment       Sentiment
	FetchedAt       time.Time
}
