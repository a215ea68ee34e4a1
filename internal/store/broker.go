package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"purefunding.app/responder/internal/model"
)

type brokerStore struct {
	pool *pgxpool.Pool
}

func newBrokerStore(pool *pgxpool.Pool) BrokerStore {
	return &brokerStore{pool: pool}
}

const brokerColumns = `id, name, email, kixie_email, phone_number, active, created_at, updated_at`

func (s *brokerStore) GetByKixieEmail(ctx context.Context, email string) (*model.Broker, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+brokerColumns+` FROM brokers WHERE lower(kixie_email) = lower($1) LIMIT 1`,
		email)
	return scanBroker(row)
}

func (s *brokerStore) GetByPhone(ctx context.Context, phone string) (*model.Broker, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+brokerColumns+` FROM brokers WHERE phone_number = $1 LIMIT 1`,
		phone)
	return scanBroker(row)
}

func (s *brokerStore) GetByPhoneFragment(ctx context.Context, fragment string) (*model.Broker, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+brokerColumns+` FROM brokers WHERE phone_number LIKE '%' || $1 || '%' LIMIT 1`,
		fragment)
	return scanBroker(row)
}

func scanBroker(row pgx.Row) (*model.Broker, error) {
	var b model.Broker
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.KixieEmail,
		&b.PhoneNumber,
		&b.Active,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}
