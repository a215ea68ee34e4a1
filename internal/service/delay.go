package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"purefunding.app/responder/common/logger"
	"purefunding.app/responder/internal/store"
)

const (
	// EmailReplyDelaySeconds is the quick turnaround for email questions.
	EmailReplyDelaySeconds = 5

	ongoingWindow = 30 * time.Minute

	ongoingDelayMin = 25
	ongoingDelayMax = 35
	newDelayMin     = 120
	newDelayMax     = 240

	defaultDelaySeconds = 120
)

// DelayPolicy computes how many seconds to wait before sending a reply, to
// mimic human response latency. Advisory only; the outbound queue does the
// actual scheduling.
type DelayPolicy interface {
	ResponseDelay(ctx context.Context, phone, brokerEmail string) int
}

type delayPolicy struct {
	conversations store.ConversationStore
}

func NewDelayPolicy(conversations store.ConversationStore) DelayPolicy {
	return &delayPolicy{conversations: conversations}
}

func (p *delayPolicy) ResponseDelay(ctx context.Context, phone, brokerEmail string) int {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "responder.service.delay",
	})

	since := time.Now().Add(-ongoingWindow)
	count, err := p.conversations.CountSince(ctx, NormalizePhone(phone), brokerEmail, since)
	if err != nil {
		slog.ErrorContext(ctx, "delay lookup failed, using default",
			"error", err, "default_seconds", defaultDelaySeconds)
		return defaultDelaySeconds
	}

	if count > 0 {
		// Ongoing conversation: reply fairly quickly.
		return randBetween(ongoingDelayMin, ongoingDelayMax)
	}
	// New conversation: a few minutes feels natural.
	return randBetween(newDelayMin, newDelayMax)
}

func randBetween(min, max int) int {
	return rand.IntN(max-min+1) + min
}
