package service

import (
	"context"
	"log/slog"
	"strings"

	"purefunding.app/responder/common/llm"
	"purefunding.app/responder/common/logger"
	"purefunding.app/responder/internal/model"
)

const sentimentSystemPrompt = "Analyze the sentiment of these text messages from a business-funding lead. " +
	"Return overall (positive/negative/neutral), urgency (high/medium/low), and interest (high/moderate/low)."

// SentimentAnalyzer annotates recent customer messages. Best-effort: any
// failure yields the neutral default, never an error.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, history []model.Conversation) model.Sentiment
}

type sentimentAnalyzer struct {
	chat llm.Client
}

func NewSentimentAnalyzer(chat llm.Client) SentimentAnalyzer {
	return &sentimentAnalyzer{chat: chat}
}

func (a *sentimentAnalyzer) Analyze(ctx context.Context, history []model.Conversation) model.Sentiment {
	if a.chat == nil || len(history) == 0 {
		return model.NeutralSentiment()
	}

	// Only the last few user messages carry signal.
	recent := history
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	var parts []string
	for _, conv := range recent {
		if conv.UserMessage != nil && *conv.UserMessage != "" {
			parts = append(parts, *conv.UserMessage)
		}
	}
	if len(parts) == 0 {
		return model.NeutralSentiment()
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "responder.service.sentiment",
	})

	var result model.Sentiment
	err := a.chat.CompleteStructured(ctx, llm.StructuredRequest{
		SystemPrompt: sentimentSystemPrompt,
		UserPrompt:   strings.Join(parts, " "),
		SchemaName:   "message_sentiment",
		Schema:       llm.GenerateSchema[model.Sentiment](),
		MaxTokens:    100,
		Temperature:  llm.Temp(0.3),
	}, &result)
	if err != nil {
		slog.WarnContext(ctx, "sentiment analysis failed, using neutral",
			"error", err, "failure_kind", llm.Classify(err))
		return model.NeutralSentiment()
	}

	if result.Overall == "" {
		result.Overall = "neutral"
	}
	if result.Urgency == "" {
		result.Urgency = "medium"
	}
	if result.Interest == "" {
		result.Interest = "moderate"
	}
	return result
}
