package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Stores struct {
	pool *pgxpool.Pool
}

func NewStores(pool *pgxpool.Pool) *Stores {
	return &Stores{pool: pool}
}

func (s *Stores) Brokers() BrokerStore {
	return newBrokerStore(s.pool)
}

func (s *Stores) Conversations() ConversationStore {
	return newConversationStore(s.pool)
}
