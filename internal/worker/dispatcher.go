package worker

import (
	"context"
	"time"

	outbox "resortdesk/internal/notification"

	"go.uber.org/zap"
)

const (
	outboxBatchSize = 50
	maxSendAttempts = 5
)

type outboxRepo interface {
	PendingBatch(ctx context.Context, limit int) ([]outbox.Notification, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64, attempts, maxAttempts int) error
}

type mailSender interface {
	Configured() bool
	Send(to, subject, body string) error
}

type creditSweeper interface {
	ExpireSweep(ctx context.Context) (int64, error)
}

type limiterCleaner interface {
	Cleanup()
}

// Dispatcher runs the background loops: draining the notification outbox,
// expiring stale account credit, and pruning the rate limiter.
type Dispatcher struct {
	outbox   outboxRepo
	mailer   mailSender
	credits  creditSweeper
	limiter  limiterCleaner
	logger   *zap.Logger
	interval time.Duration
	stopChan chan struct{}
}

func NewDispatcher(
	outboxRows outboxRepo,
	mailer mailSender,
	credits creditSweeper,
	limiter limiterCleaner,
	logger *zap.Logger,
	interval time.Duration,
) *Dispatcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Dispatcher{
		outbox:   outboxRows,
		mailer:   mailer,
		credits:  credits,
		limiter:  limiter,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("starting background dispatcher", zap.Duration("interval", d.interval))
	go d.runOutboxLoop(ctx)
	go d.runMaintenanceLoop(ctx)
}

func (d *Dispatcher) Stop() {
	d.logger.Info("stopping background dispatcher")
	close(d.stopChan)
}

func (d *Dispatcher) runOutboxLoop(ctx context.Context) {
	d.drainOutbox(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.drainOutbox(ctx)
		case <-d.stopChan:
			d.logger.Info("outbox loop stopped")
			return
		case <-ctx.Done():
			d.logger.Info("outbox loop cancelled")
			return
		}
	}
}

// Maintenance jobs are cheap and infrequent; one hourly tick covers both.
func (d *Dispatcher) runMaintenanceLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.sweepCredits(ctx)
			if d.limiter != nil {
				d.limiter.Cleanup()
			}
		case <-d.stopChan:
			d.logger.Info("maintenance loop stopped")
			return
		case <-ctx.Done():
			d.logger.Info("maintenance loop cancelled")
			return
		}
	}
}

func (d *Dispatcher) drainOutbox(ctx context.Context) {
	rows, err := d.outbox.PendingBatch(ctx, outboxBatchSize)
	if err != nil {
		d.logger.Error("failed to load pending notifications", zap.Error(err))
		return
	}
	if len(rows) == 0 {
		return
	}

	sent := 0
	for _, n := range rows {
		if d.deliver(n) {
			if err := d.outbox.MarkSent(ctx, n.ID, time.Now().UTC()); err != nil {
				d.logger.Error("failed to mark notification sent", zap.Int64("id", n.ID), zap.Error(err))
				continue
			}
			sent++
			continue
		}

		if err := d.outbox.MarkFailed(ctx, n.ID, n.Attempts+1, maxSendAttempts); err != nil {
			d.logger.Error("failed to record delivery failure", zap.Int64("id", n.ID), zap.Error(err))
		}
	}

	d.logger.Info("outbox drained", zap.Int("batch", len(rows)), zap.Int("sent", sent))
}

// deliver returns true when the row needs no further attempts. Rows without
// a recipient are in-app only and complete immediately.
func (d *Dispatcher) deliver(n outbox.Notification) bool {
	if n.Recipient == "" || !d.mailer.Configured() {
		return true
	}

	if err := d.mailer.Send(n.Recipient, n.Title, n.Body); err != nil {
		d.logger.Warn("mail delivery failed",
			zap.Int64("id", n.ID),
			zap.String("type", n.Type),
			zap.Int("attempts", n.Attempts+1),
			zap.Error(err))
		return false
	}
	return true
}

func (d *Dispatcher) sweepCredits(ctx context.Context) {
	n, err := d.credits.ExpireSweep(ctx)
	if err != nil {
		d.logger.Error("credit expiry sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		d.logger.Info("expired credits zeroed", zap.Int64("count", n))
	}
}
