package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"purefunding.app/responder/internal/model"
)

type conversationStore struct {
	pool *pgxpool.Pool
}

func newConversationStore(pool *pgxpool.Pool) ConversationStore {
	return &conversationStore{pool: pool}
}

func (s *conversationStore) Create(ctx context.Context, conv *model.Conversation) error {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO conversations (id, phone_number, broker_email, user_message, ai_response, is_error, training)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		conv.ID,
		conv.PhoneNumber,
		conv.BrokerEmail,
		conv.UserMessage,
		conv.Response,
		conv.IsError,
		conv.Training,
	)
	return row.Scan(&conv.CreatedAt)
}

func (s *conversationStore) ListRecentByPhone(ctx context.Context, phone string, limit int32) ([]model.Conversation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, phone_number, broker_email, user_message, ai_response, is_error, rating, training, created_at
		 FROM conversations
		 WHERE phone_number = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		phone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanConversations(rows)
}

func (s *conversationStore) CountSince(ctx context.Context, phone, brokerEmail string, since time.Time) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM conversations
		 WHERE phone_number = $1 AND broker_email = $2 AND created_at >= $3`,
		phone, brokerEmail, since).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanConversations(rows pgx.Rows) ([]model.Conversation, error) {
	var result []model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(
			&c.ID,
			&c.PhoneNumber,
			&c.BrokerEmail,
			&c.UserMessage,
			&c.Response,
			&c.IsError,
			&c.Rating,
			&c.Training,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
