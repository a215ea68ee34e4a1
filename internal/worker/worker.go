// Package worker drains the outbound send stream and delivers replies once
// their scheduled delay has elapsed.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"purefunding.app/responder/common/logger"
	"purefunding.app/responder/internal/queue"
	"purefunding.app/responder/internal/sms"
)

// errInterrupted marks a send abandoned by shutdown. The message stays
// pending and is picked up by the reclaimer; it does not count as a failed
// attempt.
var errInterrupted = errors.New("send interrupted by shutdown")

type Config struct {
	MaxAttempts int
}

// Consumer is the slice of the stream consumer the worker drives.
// Satisfied by *queue.RedisConsumer.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

type Worker struct {
	consumer Consumer
	sender   sms.Sender
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, sender sms.Sender, cfg Config) *Worker {
	return &Worker{
		consumer:  consumer,
		sender:    sender,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "send worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "send worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			if errors.Is(err, errInterrupted) || errors.Is(err, context.Canceled) {
				return nil
			}
			slog.ErrorContext(ctx, "send failed",
				"error", err,
				"message_id", msg.ID,
				"to", msg.To)
			w.handleFailedMessage(ctx, msg, err)
		}
	}

	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in send processing",
				"panic", r,
				"message_id", msg.ID,
				"to", msg.To)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage delivers a single scheduled send. Exported so it can be
// reused by the reclaimer.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:   "responder.worker",
		MessageID:   logger.Ptr(msg.ID),
		PhoneNumber: logger.Ptr(msg.To),
		BrokerEmail: logger.Ptr(msg.BrokerEmail),
	})

	slog.InfoContext(ctx, "processing scheduled send",
		"not_before", msg.NotBefore,
		"attempt", msg.Attempt)

	if err := w.waitUntil(ctx, msg.NotBefore); err != nil {
		return err
	}

	if err := w.sender.Send(ctx, msg.To, msg.BrokerEmail, msg.Body); err != nil {
		return fmt.Errorf("delivering sms: %w", err)
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// Log but don't fail - a duplicate send on reclaim is acceptable
		// for a chat reply.
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
	}

	return nil
}

func (w *Worker) waitUntil(ctx context.Context, notBefore time.Time) error {
	wait := time.Until(notBefore)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.stopCh:
		return errInterrupted
	case <-timer.C:
		return nil
	}
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"to", msg.To,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed send",
		"message_id", msg.ID,
		"to", msg.To,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
