package store

import (
	"context"
	"errors"
	"time"

	"purefunding.app/responder/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// BrokerStore defines the contract for broker directory access.
// The responder only reads brokers; CRUD lives in the admin tooling.
type BrokerStore interface {
	GetByKixieEmail(ctx context.Context, email string) (*model.Broker, error)
	GetByPhone(ctx context.Context, phone string) (*model.Broker, error)
	// GetByPhoneFragment matches brokers whose stored phone number contains
	// the given digit fragment. Used as a last resort for inconsistent
	// country-code formatting.
	GetByPhoneFragment(ctx context.Context, fragment string) (*model.Broker, error)
}

// ConversationStore defines the contract for conversation log access.
type ConversationStore interface {
	Create(ctx context.Context, conv *model.Conversation) error
	// ListRecentByPhone returns up to limit rows for a phone number,
	// newest first.
	ListRecentByPhone(ctx context.Context, phone string, limit int32) ([]model.Conversation, error)
	// CountSince counts rows for a phone/broker pair created at or after
	// the given time.
	CountSince(ctx context.Context, phone, brokerEmail string, since time.Time) (int64, error)
}
