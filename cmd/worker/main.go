package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"purefunding.app/responder/common/id"
	"purefunding.app/responder/common/logger"
	"purefunding.app/responder/common/otel"
	"purefunding.app/responder/core/config"
	"purefunding.app/responder/internal/queue"
	"purefunding.app/responder/internal/sms"
	"purefunding.app/responder/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	slog.InfoContext(ctx, "responder worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Outbox.Group,
		"consumer_name", cfg.Outbox.Consumer)

	// Use a different node ID than the server
	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	if !cfg.Kixie.Enabled() && cfg.IsProduction() {
		slog.ErrorContext(ctx, "kixie credentials missing, cannot deliver sms")
		os.Exit(1)
	}

	redisOpts, err := redis.ParseURL(cfg.Outbox.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Outbox.Stream)

	consumer, err := queue.NewRedisConsumer(redisClient, queue.ConsumerConfig{
		Stream:       cfg.Outbox.Stream,
		Group:        cfg.Outbox.Group,
		Consumer:     cfg.Outbox.Consumer,
		DLQStream:    cfg.Outbox.DLQStream,
		BatchSize:    10,
		Block:        5 * time.Second,
		MaxAttempts:  cfg.Outbox.MaxAttempts,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	sender := sms.NewKixieClient(cfg.Kixie)

	w := worker.New(consumer, sender, worker.Config{
		MaxAttempts: cfg.Outbox.MaxAttempts,
	})

	reclaimer := worker.NewReclaimer(redisClient, worker.ReclaimerConfig{
		Stream:    cfg.Outbox.Stream,
		Group:     cfg.Outbox.Group,
		Consumer:  cfg.Outbox.Consumer + "-reclaimer",
		MinIdle:   10 * time.Minute,
		Interval:  time.Minute,
		BatchSize: 10,
	}, consumer, w.ProcessMessage)

	errCh := make(chan error, 2)
	go func() {
		errCh <- w.Run(ctx)
	}()
	go func() {
		reclaimer.Run(ctx)
		errCh <- nil
	}()

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	reclaimer.Stop()
	w.Stop()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}
