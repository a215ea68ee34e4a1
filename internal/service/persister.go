package service

import (
	"context"
	"log/slog"
	"time"

	"purefunding.app/responder/common/id"
	"purefunding.app/responder/common/logger"
	"purefunding.app/responder/internal/model"
	"purefunding.app/responder/internal/store"
)

const (
	persistMaxAttempts = 3
	persistRetryDelay  = time.Second
)

// ConversationPersister appends exchanges to the conversation log with
// bounded retry. After the final attempt fails the record is dropped with a
// log line; chat logging is explicitly lossy under sustained outages and
// must never block the reply path.
type ConversationPersister interface {
	// Save never returns an error; failures are retried then logged.
	Save(ctx context.Context, phone string, userMessage, response string, brokerEmail string, isError bool)
}

type conversationPersister struct {
	conversations store.ConversationStore

	// injectable for tests
	sleep func(time.Duration)
}

func NewConversationPersister(conversations store.ConversationStore) ConversationPersister {
	return &conversationPersister{
		conversations: conversations,
		sleep:         time.Sleep,
	}
}

func (p *conversationPersister) Save(ctx context.Context, phone string, userMessage, response string, brokerEmail string, isError bool) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "responder.service.persister",
	})

	conv := &model.Conversation{
		ID:          id.New(),
		PhoneNumber: NormalizePhone(phone),
		BrokerEmail: brokerEmail,
		Response:    response,
		IsError:     isError,
	}
	if userMessage != "" {
		conv.UserMessage = &userMessage
	}
	if conv.PhoneNumber == "" {
		conv.PhoneNumber = "unknown"
	}

	for attempt := 1; attempt <= persistMaxAttempts; attempt++ {
		err := p.conversations.Create(ctx, conv)
		if err == nil {
			slog.DebugContext(ctx, "conversation saved",
				"conversation_id", conv.ID,
				"attempt", attempt)
			return
		}

		slog.ErrorContext(ctx, "failed to save conversation",
			"error", err,
			"attempt", attempt,
			"max_attempts", persistMaxAttempts)

		if attempt == persistMaxAttempts {
			slog.ErrorContext(ctx, "conversation dropped after max retries",
				"phone_number", conv.PhoneNumber)
			return
		}

		// Linear backoff: 1s, 2s.
		p.sleep(persistRetryDelay * time.Duration(attempt))
	}
}
