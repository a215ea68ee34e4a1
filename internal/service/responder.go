package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"purefunding.app/responder/common/llm"
	"purefunding.app/responder/common/logger"
	"purefunding.app/responder/internal/model"
)

const (
	generateTimeout = 30 * time.Second

	// Single-turn replies are kept extremely short; history-seeded ones get
	// a little more room.
	singleTurnMaxTokens = 25
	historyMaxTokens    = 150

	replyTemperature = 0.7
)

// ResponseGenerator produces the reply text for an inbound message. It never
// returns an error and never returns an empty string: every failure mode
// degrades to scripted text.
type ResponseGenerator interface {
	Generate(ctx context.Context, phone, message string, broker *model.Broker, convCtx *model.ConversationContext) string
}

type responseGenerator struct {
	chat      llm.Client // nil when the generative path is disabled
	fallback  FallbackSelector
	persister ConversationPersister
	ready     bool
}

// NewResponseGenerator wires the generator. A nil chat client (bad or
// missing credentials) permanently disables generation for this process;
// every call then goes through the fallback selector.
func NewResponseGenerator(chat llm.Client, fallback FallbackSelector, persister ConversationPersister) ResponseGenerator {
	return &responseGenerator{
		chat:      chat,
		fallback:  fallback,
		persister: persister,
		ready:     chat != nil,
	}
}

func (g *responseGenerator) ensureReady() bool {
	return g.ready && g.chat != nil
}

func (g *responseGenerator) Generate(ctx context.Context, phone, message string, broker *model.Broker, convCtx *model.ConversationContext) string {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "responder.service.generator",
	})

	// Email questions bypass the backend entirely.
	if IsEmailQuestion(message) {
		return EmailReply(broker)
	}

	if !g.ensureReady() {
		slog.InfoContext(ctx, "generative path disabled, using fallback responses")
		return g.fallback.Select(message, broker)
	}

	messages, maxTokens := g.buildMessages(message, broker, convCtx)

	callCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	reply, err := g.chat.Complete(callCtx, llm.Request{
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: llm.Temp(replyTemperature),
	})
	if err != nil {
		kind := llm.Classify(err)
		slog.ErrorContext(ctx, "reply generation failed",
			"error", err,
			"failure_kind", kind,
			"broker", broker.Name)

		fallbackMsg := fmt.Sprintf("Hey, shoot me an email at %s", broker.Email)
		// Best-effort audit trail; Save never raises.
		g.persister.Save(ctx, phone, message, fallbackMsg, broker.Email, true)
		return fallbackMsg
	}

	slog.InfoContext(ctx, "reply generated",
		"broker", broker.Name,
		"reply", logger.Truncate(reply, 120))
	return reply
}

func (g *responseGenerator) buildMessages(message string, broker *model.Broker, convCtx *model.ConversationContext) ([]llm.Message, int) {
	messages := []llm.Message{{
		Role:    llm.RoleSystem,
		Content: personaPrompt(broker, convCtx),
	}}

	maxTokens := singleTurnMaxTokens
	if convCtx != nil && len(convCtx.History) > 0 {
		maxTokens = historyMaxTokens
		for _, conv := range convCtx.History {
			if conv.UserMessage != nil && *conv.UserMessage != "" {
				messages = append(messages, llm.Message{Role: llm.RoleUser, Content: *conv.UserMessage})
			}
			if conv.Response != "" {
				messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: conv.Response})
			}
		}
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})
	return messages, maxTokens
}

func personaPrompt(broker *model.Broker, convCtx *model.ConversationContext) string {
	prompt := fmt.Sprintf(`You are %s, a funding specialist at Pure Financial Funding.

CRITICAL RULES:
1. Text EXACTLY like a real person - super informal
2. ONE short sentence only
3. We fund ALL types of businesses
4. NO emojis or special characters
5. NEVER mention other clients or deals
6. NEVER discuss rates or terms
7. NEVER mention being AI
8. NO sharing of any client info
9. Email is EXACTLY: "%s"
10. PERSISTENCE: Only fully stop if user says "unsubscribe", "stop texting", or uses hostile language
11. GOAL: Get their last 4 months of bank statements

RESPONSE STYLE:
- Text like you're messaging a friend
- Use casual language (yeah, hey, cool, etc)
- Keep it super short
- For soft rejections, stay engaged and try different angles

CONTEXT UNDERSTANDING:
- Analyze tone and intent, not just keywords
- If they seem busy, acknowledge and ask when better to chat
- If they're hesitant, focus on how you can help their business
- If they mention specific business needs, reference those in follow-ups

PERFECT EXAMPLES:
"yeah whats your business about"
"how much funding you thinking about"
"cool can you send over 4 months bank statements"
"whats your monthly rev like"
"k let me check what i can do"
"send those statements when ready"
"no rush but those statements would help me get you options"
"when would be a better time to chat about this"`, broker.Name, broker.Email)

	if convCtx != nil {
		prompt += fmt.Sprintf("\n\nLEAD SENTIMENT: overall %s, urgency %s, interest %s",
			convCtx.Sentiment.Overall, convCtx.Sentiment.Urgency, convCtx.Sentiment.Interest)
	}

	return prompt
}
