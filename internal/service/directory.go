package service

import (
	"context"
	"errors"
	"log/slog"

	"purefunding.app/responder/common/logger"
	"purefunding.app/responder/internal/model"
	"purefunding.app/responder/internal/store"
)

// ErrBrokerNotFound is returned when no broker matches the inbound identity.
// Callers must reject the message rather than guess.
var ErrBrokerNotFound = errors.New("broker not found")

// DirectoryService resolves an inbound identity to a broker record.
type DirectoryService interface {
	// Resolve tries, in order: case-insensitive alias-email match, exact
	// phone-variant match, then trailing-8-digit substring match.
	// A store failure at any stage is logged and treated as a miss.
	Resolve(ctx context.Context, aliasEmail, businessNumber string) (*model.Broker, error)
}

type directoryService struct {
	brokers store.BrokerStore
}

func NewDirectoryService(brokers store.BrokerStore) DirectoryService {
	return &directoryService{brokers: brokers}
}

func (s *directoryService) Resolve(ctx context.Context, aliasEmail, businessNumber string) (*model.Broker, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "responder.service.directory",
	})

	if aliasEmail != "" {
		broker, err := s.brokers.GetByKixieEmail(ctx, aliasEmail)
		if err == nil {
			slog.DebugContext(ctx, "broker matched by alias email", "alias_email", aliasEmail)
			return broker, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			// Collapsed to not-found for the caller, but kept distinguishable here.
			slog.ErrorContext(ctx, "directory_unavailable during alias lookup",
				"error", err, "alias_email", aliasEmail)
		}
	}

	if businessNumber == "" {
		return nil, ErrBrokerNotFound
	}

	variants := PhoneVariants(businessNumber)

	for _, variant := range variants {
		broker, err := s.brokers.GetByPhone(ctx, variant)
		if err == nil {
			slog.DebugContext(ctx, "broker matched by exact phone", "variant", variant)
			return broker, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			slog.ErrorContext(ctx, "directory_unavailable during phone lookup",
				"error", err, "variant", variant)
		}
	}

	for _, variant := range variants {
		fragment := trailingDigits(variant, 8)
		if fragment == "" {
			continue
		}
		broker, err := s.brokers.GetByPhoneFragment(ctx, fragment)
		if err == nil {
			slog.DebugContext(ctx, "broker matched by phone fragment", "fragment", fragment)
			return broker, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			slog.ErrorContext(ctx, "directory_unavailable during fragment lookup",
				"error", err, "fragment", fragment)
		}
	}

	slog.InfoContext(ctx, "no broker matched inbound identity",
		"alias_email", aliasEmail, "business_number", businessNumber)
	return nil, ErrBrokerNotFound
}
