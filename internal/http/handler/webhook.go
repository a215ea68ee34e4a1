package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"purefunding.app/responder/common/logger"
	"purefunding.app/responder/internal/http/dto"
	"purefunding.app/responder/internal/queue"
	"purefunding.app/responder/internal/service"
)

// WebhookHandler receives telephony SMS events and produces the auto-reply.
type WebhookHandler struct {
	directory service.DirectoryService
	generator service.ResponseGenerator
	delay     service.DelayPolicy
	persister service.ConversationPersister
	context   service.ContextProvider
	producer  queue.Producer
}

func NewWebhookHandler(
	directory service.DirectoryService,
	generator service.ResponseGenerator,
	delay service.DelayPolicy,
	persister service.ConversationPersister,
	contextProvider service.ContextProvider,
	producer queue.Producer,
) *WebhookHandler {
	return &WebhookHandler{
		directory: directory,
		generator: generator,
		delay:     delay,
		persister: persister,
		context:   contextProvider,
		producer:  producer,
	}
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	var event dto.SMSEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		slog.WarnContext(ctx, "invalid webhook payload", "error", err)
		c.JSON(http.StatusBadRequest, dto.WebhookResponse{Success: false, Message: "invalid payload"})
		return
	}

	fields := event.Normalize()

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:   "responder.http.webhook",
		PhoneNumber: logger.Ptr(fields.From),
		Direction:   logger.Ptr(fields.Direction),
	})

	if !fields.IsIncoming() {
		slog.InfoContext(ctx, "non-incoming event ignored")
		c.JSON(http.StatusOK, dto.WebhookResponse{Success: true, Message: "event ignored"})
		return
	}

	if fields.From == "" || fields.Message == "" {
		slog.WarnContext(ctx, "webhook missing phone number or message")
		c.JSON(http.StatusBadRequest, dto.WebhookResponse{Success: false, Message: "missing phone number or message"})
		return
	}

	broker, err := h.directory.Resolve(ctx, fields.Email, fields.BusinessNumber)
	if err != nil {
		if errors.Is(err, service.ErrBrokerNotFound) {
			slog.WarnContext(ctx, "no broker matched webhook",
				"alias_email", fields.Email,
				"business_number", fields.BusinessNumber)
			c.JSON(http.StatusNotFound, dto.WebhookResponse{Success: false, Message: "broker not found"})
			return
		}
		slog.ErrorContext(ctx, "broker lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.WebhookResponse{Success: false, Message: "lookup failed"})
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{BrokerEmail: logger.Ptr(broker.Email)})

	if !broker.Active {
		slog.InfoContext(ctx, "broker inactive, message ignored")
		c.JSON(http.StatusOK, dto.WebhookResponse{Success: true, Message: "broker inactive"})
		return
	}

	// Delay is decided before generation so the email fast path stays fast.
	var delaySeconds int
	if service.IsEmailQuestion(fields.Message) {
		delaySeconds = service.EmailReplyDelaySeconds
	} else {
		delaySeconds = h.delay.ResponseDelay(ctx, fields.From, broker.Email)
	}

	convCtx := h.context.Get(ctx, fields.From)
	response := h.generator.Generate(ctx, fields.From, fields.Message, broker, convCtx)

	h.persister.Save(ctx, fields.From, fields.Message, response, broker.Email, false)

	sendAs := broker.KixieEmail
	if sendAs == "" {
		sendAs = broker.Email
	}
	task := queue.SendTask{
		To:          fields.From,
		BrokerEmail: sendAs,
		Body:        response,
		NotBefore:   time.Now().Add(time.Duration(delaySeconds) * time.Second),
	}
	if err := h.producer.Enqueue(ctx, task); err != nil {
		// The reply still goes back in the webhook response; only the
		// scheduled delivery is lost.
		slog.ErrorContext(ctx, "failed to enqueue outbound send", "error", err)
	}

	slog.InfoContext(ctx, "webhook processed",
		"delay_seconds", delaySeconds,
		"response", logger.Truncate(response, 120))

	c.JSON(http.StatusOK, dto.WebhookResponse{
		Success:  true,
		Response: response,
		Delay:    delaySeconds,
	})
}
