// Package main is the entry point for the Inventra background worker.
// It relays outbox messages and runs the periodic low-stock sweep.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"inventra/internal/config"
	"inventra/internal/domain/alerting"
	"inventra/internal/infrastructure/storage/postgres"
	"inventra/internal/infrastructure/storage/postgres/catalog_repo"
	"inventra/pkg/logger"
)

const (
	outboxPollInterval = 500 * time.Millisecond
	outboxBatchSize    = 100
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting inventra worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.DSN()))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	productRepo := catalog_repo.NewProductRepo(txManager)

	rule, err := alerting.CompileRule(cfg.Alerting.RuleExpr)
	if err != nil {
		log.Fatalw("invalid alert rule expression", "expr", cfg.Alerting.RuleExpr, "error", err)
	}

	worker := &Worker{
		log:           log.WithComponent("worker"),
		pool:          pool,
		txManager:     txManager,
		relay:         postgres.NewOutboxRelay(pool.Pool, outboxBatchSize, &logHandler{log: log.WithComponent("outbox")}),
		sweeper:       alerting.NewSweeper(productRepo, rule, postgres.NewOutboxPublisher(txManager)),
		sweepInterval: cfg.Alerting.SweepInterval,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// Worker drives the outbox relay and the low-stock sweep on timers.
type Worker struct {
	log           *logger.Logger
	pool          *postgres.Pool
	txManager     *postgres.TxManager
	relay         *postgres.OutboxRelay
	sweeper       *alerting.Sweeper
	sweepInterval time.Duration
}

func (w *Worker) Run(ctx context.Context) {
	pollTicker := time.NewTicker(outboxPollInterval)
	defer pollTicker.Stop()

	sweepTicker := time.NewTicker(w.sweepInterval)
	defer sweepTicker.Stop()

	statsTicker := time.NewTicker(1 * time.Hour)
	defer statsTicker.Stop()

	// Sweep once on startup so alerts are not delayed a full interval.
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-pollTicker.C:
			w.processOutbox(ctx)
		case <-sweepTicker.C:
			w.sweep(ctx)
		case <-statsTicker.C:
			w.pool.LogStats(ctx)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	count, err := w.relay.ProcessBatch(ctx)
	if err != nil {
		w.log.Errorw("outbox batch failed", "error", err)
		return
	}
	if count > 0 {
		w.log.Debugw("processed outbox batch", "count", count)
	}
}

func (w *Worker) sweep(ctx context.Context) {
	var result alerting.SweepResult
	err := w.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		result, err = w.sweeper.Run(ctx)
		return err
	})
	if err != nil {
		w.log.Errorw("low stock sweep failed", "error", err)
		return
	}
	w.log.Infow("low stock sweep done", "scanned", result.Scanned, "flagged", result.Flagged)
}

// logHandler delivers outbox messages by logging them. Swap for a real
// transport (email, webhook, message broker) in deployment.
type logHandler struct {
	log *logger.Logger
}

func (h *logHandler) Handle(_ context.Context, msg *postgres.OutboxMessage) error {
	h.log.Infow("alert delivered",
		"event_type", msg.EventType,
		"aggregate_type", msg.AggregateType,
		"aggregate_id", msg.AggregateID,
		"payload", string(msg.Payload),
	)
	return nil
}
