// Package worker runs the background dataset refresh loop.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"refboard/internal/core"
	"refboard/internal/service"
)

// RefreshPublisher announces a completed refresh to downstream consumers.
// Satisfied by the AMQP client; nil disables publishing.
type RefreshPublisher interface {
	PublishDatasetRefresh(ctx context.Context, userID string, referrals, transactions int) error
}

// RefreshWorker reloads one user's dataset on a fixed interval and swaps
// it into the shared holder.
type RefreshWorker struct {
	svc       *service.ReportService
	holder    *service.Holder
	publisher RefreshPublisher
	userID    string
	interval  time.Duration
}

func NewRefreshWorker(svc *service.ReportService, holder *service.Holder, publisher RefreshPublisher, userID string, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		svc:       svc,
		holder:    holder,
		publisher: publisher,
		userID:    userID,
		interval:  interval,
	}
}

// RefreshOnce loads a fresh dataset and replaces the current one. The
// previous dataset stays current if the load fails. A publish failure is
// logged but does not fail the refresh; the dataset swap already happened.
func (w *RefreshWorker) RefreshOnce(ctx context.Context) (*core.Dataset, error) {
	ds, err := w.svc.Load(ctx, w.userID)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	w.holder.Replace(ds)

	if w.publisher != nil {
		if err := w.publisher.PublishDatasetRefresh(ctx, ds.UserID, len(ds.Referrals), len(ds.Transactions)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish refresh message",
				"user_id", ds.UserID,
				"error", err)
		}
	}

	return ds, nil
}

// Run refreshes immediately, then on every interval tick until the
// context is cancelled.
func (w *RefreshWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Refresh worker started",
		"user_id", w.userID,
		"interval", w.interval)

	if _, err := w.RefreshOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial refresh failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Refresh worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.RefreshOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic refresh failed", "error", err)
			}
		}
	}
}
