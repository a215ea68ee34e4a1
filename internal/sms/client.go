// Package sms sends outbound text messages through the Kixie event API.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"purefunding.app/responder/common/logger"
	"purefunding.app/responder/core/config"
)

const sendTimeout = 15 * time.Second

// Sender delivers an SMS to a phone number on behalf of a broker.
type Sender interface {
	Send(ctx context.Context, to, brokerEmail, body string) error
}

type eventPayload struct {
	BusinessID string `json:"businessId"`
	Email      string `json:"email"`
	Target     string `json:"target"`
	EventName  string `json:"eventname"`
	Message    string `json:"message"`
}

type kixieClient struct {
	httpClient *http.Client
	cfg        config.KixieConfig
}

func NewKixieClient(cfg config.KixieConfig) Sender {
	return &kixieClient{
		httpClient: &http.Client{Timeout: sendTimeout},
		cfg:        cfg,
	}
}

func (c *kixieClient) Send(ctx context.Context, to, brokerEmail, body string) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:   "responder.sms.kixie",
		PhoneNumber: logger.Ptr(to),
		BrokerEmail: logger.Ptr(brokerEmail),
	})

	payload, err := json.Marshal(eventPayload{
		BusinessID: c.cfg.BusinessID,
		Email:      brokerEmail,
		Target:     to,
		EventName:  "sms",
		Message:    body,
	})
	if err != nil {
		return fmt.Errorf("marshaling sms event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EventURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending sms event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms event rejected (status=%d): %s", resp.StatusCode, respBody)
	}

	slog.InfoContext(ctx, "sms sent", "length", len(body))
	return nil
}
