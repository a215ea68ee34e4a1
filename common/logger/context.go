package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Fields flow through context enrichment so business context
// (phone_number, broker_email, etc.) shows up on every log statement without
// threading it by hand.
type LogFields struct {
	PhoneNumber    *string // Customer phone number (digits-only)
	BrokerEmail    *string // Broker the inbound message resolved to
	Direction      *string // "incoming" or "outgoing"
	ConversationID *int64  // Conversation row ID
	MessageID      *string // Redis stream message ID
	Component      string  // Component name (e.g., "responder.service.directory")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.PhoneNumber != nil {
		result.PhoneNumber = next.PhoneNumber
	}
	if next.BrokerEmail != nil {
		result.BrokerEmail = next.BrokerEmail
	}
	if next.Direction != nil {
		result.Direction = next.Direction
	}
	if next.ConversationID != nil {
		result.ConversationID = next.ConversationID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{PhoneNumber: logger.Ptr(num)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Useful for logging potentially long strings like message bodies.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
