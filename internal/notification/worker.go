package notification

import (
	"context"
	"errors"
	"time"

	"shilajit-be/internal/logger"
	"shilajit-be/internal/metrics"

	"go.uber.org/zap"
)

const (
	baseBackoff = time.Minute
	maxBackoff  = time.Hour
	claimLease  = 5 * time.Minute
)

type WorkerConfig struct {
	BatchSize   int
	MaxAttempts int
}

// Worker drains the outbox: it renders each due intent, sends it and records
// the outcome.
type Worker struct {
	outbox   Outbox
	renderer *Renderer
	sender   Sender
	cfg      WorkerConfig
	now      func() time.Time

	sent   metrics.Counter
	failed metrics.Counter
	dead   metrics.Counter
}

// Stats is a point-in-time view of the worker's delivery counters.
type Stats struct {
	Sent   uint64
	Failed uint64
	Dead   uint64
}

func (w *Worker) Stats() Stats {
	return Stats{Sent: w.sent.Load(), Failed: w.failed.Load(), Dead: w.dead.Load()}
}

func NewWorker(outbox Outbox, renderer *Renderer, sender Sender, cfg WorkerConfig) *Worker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Worker{outbox: outbox, renderer: renderer, sender: sender, cfg: cfg, now: time.Now}
}

// Backoff returns the delay before the next try after the given attempt.
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := baseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// RunOnce processes a single batch and reports how many messages were sent.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "worker"),
		zap.String("method", "RunOnce"),
	)

	sw := metrics.Start(w.now)
	msgs, err := w.outbox.Claim(ctx, w.now(), w.cfg.BatchSize, claimLease)
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	sent := 0
	for _, m := range msgs {
		if err := w.deliver(ctx, m); err != nil {
			w.fail(ctx, log, m, err)
			continue
		}
		if err := w.outbox.MarkSent(ctx, m.ID); err != nil {
			log.Error("failed to mark notification sent", zap.Int64("id", m.ID), zap.Error(err))
			continue
		}
		sent++
		w.sent.Inc()
		log.Info("notification sent",
			zap.Int64("id", m.ID),
			zap.String("kind", string(m.Intent.Kind)),
			zap.String("order_number", m.Intent.Data.OrderNumber),
		)
	}

	log.Info("notification batch done",
		zap.Int("claimed", len(msgs)),
		zap.Int("sent", sent),
		zap.Duration("elapsed", sw.Elapsed()),
	)
	return sent, nil
}

func (w *Worker) deliver(ctx context.Context, m Message) error {
	if m.DecodeErr != nil {
		return m.DecodeErr
	}
	if m.Intent.Recipient == "" {
		return ErrMissingReceiver
	}
	subject, body, err := w.renderer.Render(m.Intent)
	if err != nil {
		return err
	}
	return w.sender.Send(ctx, m.Intent.Recipient, subject, body)
}

func (w *Worker) fail(ctx context.Context, log *zap.Logger, m Message, cause error) {
	dead := m.Attempts >= w.cfg.MaxAttempts ||
		errors.Is(cause, ErrUnknownKind) ||
		errors.Is(cause, ErrMissingReceiver) ||
		errors.Is(cause, ErrUndecodable)
	next := w.now().Add(Backoff(m.Attempts))
	w.failed.Inc()
	if dead {
		w.dead.Inc()
	}

	log.Warn("notification delivery failed",
		zap.Int64("id", m.ID),
		zap.String("kind", string(m.Intent.Kind)),
		zap.Int("attempts", m.Attempts),
		zap.Bool("dead", dead),
		zap.Error(cause),
	)

	if err := w.outbox.MarkFailed(ctx, m.ID, cause.Error(), next, dead); err != nil {
		log.Error("failed to record notification failure", zap.Int64("id", m.ID), zap.Error(err))
	}
}

// Run polls the outbox every interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context, interval time.Duration) error {
	log := logger.FromCtx(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
			log.Error("notifier batch failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			st := w.Stats()
			log.Info("notifier stopped",
				zap.Uint64("sent", st.Sent),
				zap.Uint64("failed", st.Failed),
				zap.Uint64("dead", st.Dead),
			)
			return nil
		case <-ticker.C:
		}
	}
}
