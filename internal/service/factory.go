package service

import (
	"purefunding.app/responder/common/llm"
	"purefunding.app/responder/core/config"
	"purefunding.app/responder/internal/store"
)

// Services bundles the business-logic layer for handler wiring.
type Services struct {
	Directory DirectoryService
	Fallback  FallbackSelector
	Generator ResponseGenerator
	Delay     DelayPolicy
	Persister ConversationPersister
	Context   ContextProvider
}

func NewServices(cfg *config.Config, stores *store.Stores, chat llm.Client) *Services {
	fallback := NewFallbackSelector(DefaultResponseSets())
	persister := NewConversationPersister(stores.Conversations())

	var sentiment SentimentAnalyzer
	if chat != nil {
		sentiment = NewSentimentAnalyzer(chat)
	}

	return &Services{
		Directory: NewDirectoryService(stores.Brokers()),
		Fallback:  fallback,
		Generator: NewResponseGenerator(chat, fallback, persister),
		Delay:     NewDelayPolicy(stores.Conversations()),
		Persister: persister,
		Context: NewContextProvider(stores.Conversations(), sentiment, ContextConfig{
			MaxMessages: cfg.History.MaxMessages,
			TTL:         cfg.History.CacheTTL(),
		}),
	}
}
