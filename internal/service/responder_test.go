package service

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"purefunding.app/responder/common/llm"
	"purefunding.app/responder/internal/model"
)

var _ = Describe("ResponseGenerator", func() {
	var (
		chat      *mockLLMClient
		persister *mockPersister
		generator ResponseGenerator
		ctx       context.Context

		broker *model.Broker
	)

	fallback := NewFallbackSelector(DefaultResponseSets())

	BeforeEach(func() {
		ctx = context.Background()
		chat = &mockLLMClient{}
		persister = &mockPersister{}
		generator = NewResponseGenerator(chat, fallback, persister)

		broker = &model.Broker{
			Name:   "Jane",
			Email:  "jane@purefunding.app",
			Active: true,
		}
	})

	Context("email questions", func() {
		It("answers deterministically without calling the backend", func() {
			reply := generator.Generate(ctx, "3035551234", "whats your email?", broker, nil)

			Expect(reply).To(Equal("My email is jane@purefunding.app"))
			Expect(chat.capturedRequest).To(BeNil())
		})
	})

	Context("without a chat client", func() {
		It("serves a scripted reply", func() {
			generator = NewResponseGenerator(nil, fallback, persister)

			reply := generator.Generate(ctx, "3035551234", "hey there", broker, nil)
			Expect(DefaultResponseSets().Greeting).To(ContainElement(reply))
		})
	})

	Context("single-turn generation", func() {
		It("sends the persona prompt and keeps the reply budget tight", func() {
			chat.completeFn = func(ctx context.Context, req llm.Request) (string, error) {
				return "yeah whats your business about", nil
			}

			reply := generator.Generate(ctx, "3035551234", "I need funding", broker, nil)
			Expect(reply).To(Equal("yeah whats your business about"))

			req := chat.capturedRequest
			Expect(req.MaxTokens).To(Equal(25))
			Expect(req.Temperature).To(HaveValue(Equal(0.7)))
			Expect(req.Messages).To(HaveLen(2))
			Expect(req.Messages[0].Role).To(Equal(llm.RoleSystem))
			Expect(req.Messages[0].Content).To(ContainSubstring("You are Jane, a funding specialist at Pure Financial Funding"))
			Expect(req.Messages[0].Content).To(ContainSubstring(`Email is EXACTLY: "jane@purefunding.app"`))
			Expect(req.Messages[1]).To(Equal(llm.Message{Role: llm.RoleUser, Content: "I need funding"}))
		})
	})

	Context("with conversation history", func() {
		var convCtx *model.ConversationContext

		BeforeEach(func() {
			first := "hi"
			second := "how much can I get"
			now := time.Now()
			convCtx = &model.ConversationContext{
				PhoneNumber: "3035551234",
				History: []model.Conversation{
					{UserMessage: &first, Response: "hey whats your business about?", CreatedAt: now.Add(-2 * time.Minute)},
					{UserMessage: &second, Response: "depends on your revenue", CreatedAt: now.Add(-time.Minute)},
				},
				Sentiment: model.Sentiment{Overall: "positive", Urgency: "high", Interest: "high"},
			}
		})

		It("threads prior turns and widens the token budget", func() {
			generator.Generate(ctx, "3035551234", "around 50k", broker, convCtx)

			req := chat.capturedRequest
			Expect(req.MaxTokens).To(Equal(150))
			Expect(req.Messages).To(HaveLen(6))
			Expect(req.Messages[1]).To(Equal(llm.Message{Role: llm.RoleUser, Content: "hi"}))
			Expect(req.Messages[2]).To(Equal(llm.Message{Role: llm.RoleAssistant, Content: "hey whats your business about?"}))
			Expect(req.Messages[5]).To(Equal(llm.Message{Role: llm.RoleUser, Content: "around 50k"}))
		})

		It("folds sentiment into the persona prompt", func() {
			generator.Generate(ctx, "3035551234", "around 50k", broker, convCtx)

			Expect(chat.capturedRequest.Messages[0].Content).To(
				ContainSubstring("LEAD SENTIMENT: overall positive, urgency high, interest high"))
		})
	})

	Context("backend failure", func() {
		BeforeEach(func() {
			chat.completeFn = func(ctx context.Context, req llm.Request) (string, error) {
				return "", errors.New("rate limit exceeded")
			}
		})

		It("returns the email fallback and records the error exchange", func() {
			reply := generator.Generate(ctx, "3035551234", "I need funding", broker, nil)

			Expect(reply).To(Equal("Hey, shoot me an email at jane@purefunding.app"))
			Expect(persister.saved).To(HaveLen(1))
			Expect(persister.saved[0].isError).To(BeTrue())
			Expect(persister.saved[0].response).To(Equal(reply))
			Expect(persister.saved[0].brokerEmail).To(Equal("jane@purefunding.app"))
		})
	})
})
