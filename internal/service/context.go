package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"purefunding.app/responder/common/logger"
	"purefunding.app/responder/internal/model"
	"purefunding.app/responder/internal/store"
)

const (
	contextFetchAttempts = 3
	contextFetchDelay    = time.Second

	// Entries older than this are dropped by the sweeper regardless of use.
	contextSweepHorizon = 30 * time.Minute
)

// ContextProvider assembles the recent-history view for a phone number and
// caches it briefly to avoid refetching on rapid exchanges. Returns nil when
// history is unavailable; callers must treat that as "no context".
type ContextProvider interface {
	Get(ctx context.Context, phone string) *model.ConversationContext
	// Run sweeps expired entries until the context is cancelled.
	Run(ctx context.Context, interval time.Duration)
}

type ContextConfig struct {
	MaxMessages int
	TTL         time.Duration
}

type contextProvider struct {
	conversations store.ConversationStore
	sentiment     SentimentAnalyzer
	cfg           ContextConfig

	mu    sync.RWMutex
	cache map[string]*model.ConversationContext

	sleep func(time.Duration)
}

func NewContextProvider(conversations store.ConversationStore, sentiment SentimentAnalyzer, cfg ContextConfig) ContextProvider {
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 10
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &contextProvider{
		conversations: conversations,
		sentiment:     sentiment,
		cfg:           cfg,
		cache:         make(map[string]*model.ConversationContext),
		sleep:         time.Sleep,
	}
}

func (p *contextProvider) Get(ctx context.Context, phone string) *model.ConversationContext {
	phone = NormalizePhone(phone)
	if phone == "" {
		return nil
	}

	p.mu.RLock()
	cached, ok := p.cache[phone]
	p.mu.RUnlock()
	if ok && time.Since(cached.FetchedAt) < p.cfg.TTL {
		return cached
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "responder.service.context",
	})

	history, err := p.fetchWithRetry(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch conversation history", "error", err)
		return nil
	}
	if len(history) == 0 {
		return nil
	}

	// Store returns newest first; history reads oldest first.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	convCtx := &model.ConversationContext{
		PhoneNumber: phone,
		History:     history,
		Sentiment:   model.NeutralSentiment(),
		FetchedAt:   time.Now(),
	}
	last := history[len(history)-1].CreatedAt
	convCtx.LastInteraction = &last

	if p.sentiment != nil {
		convCtx.Sentiment = p.sentiment.Analyze(ctx, history)
	}

	p.mu.Lock()
	p.cache[phone] = convCtx
	p.mu.Unlock()

	return convCtx
}

func (p *contextProvider) fetchWithRetry(ctx context.Context, phone string) ([]model.Conversation, error) {
	var lastErr error
	for attempt := 1; attempt <= contextFetchAttempts; attempt++ {
		history, err := p.conversations.ListRecentByPhone(ctx, phone, int32(p.cfg.MaxMessages))
		if err == nil {
			return history, nil
		}
		lastErr = err
		if attempt < contextFetchAttempts {
			p.sleep(contextFetchDelay * time.Duration(attempt))
		}
	}
	return nil, lastErr
}

func (p *contextProvider) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := p.sweep()
			if removed > 0 {
				slog.DebugContext(ctx, "context cache swept", "removed", removed)
			}
		}
	}
}

func (p *contextProvider) sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for phone, entry := range p.cache {
		if time.Since(entry.FetchedAt) > contextSweepHorizon {
			delete(p.cache, phone)
			removed++
		}
	}
	return removed
}
