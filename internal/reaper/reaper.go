// Package reaper enforces file retention: a periodic sweep removes
// expired ledger records and their backing blobs.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/arzan03/pdftoolbox/internal/services"
)

type Reaper struct {
	ledger   services.Ledger
	blobs    services.BlobStore
	interval time.Duration
	logger   *slog.Logger
}

func New(ledger services.Ledger, blobs services.BlobStore, interval time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{ledger: ledger, blobs: blobs, interval: interval, logger: logger}
}

// Run sweeps on a fixed cadence until ctx is cancelled. It runs on its
// own goroutine and never touches request handling.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweepSafe(ctx, time.Now())
		}
	}
}

// sweepSafe keeps a broken cycle from taking the process down; the
// next tick simply picks up whatever was left behind.
func (r *Reaper) sweepSafe(ctx context.Context, now time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("expiry sweep panicked", "panic", rec)
		}
	}()

	if _, err := r.Sweep(ctx, now); err != nil {
		r.logger.Error("expiry sweep failed", "err", err)
	}
}

// Sweep removes every record expired at now, then deletes each backing
// blob. A single blob deletion failure is logged and skipped, never
// fatal for the cycle. Returns the number of reaped records.
func (r *Reaper) Sweep(ctx context.Context, now time.Time) (int, error) {
	expired, err := r.ledger.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, record := range expired {
		if err := r.blobs.Delete(ctx, record.StoredName); err != nil {
			r.logger.Error("failed to delete expired blob",
				"file_id", record.ID.Hex(), "stored_name", record.StoredName, "err", err)
		}
	}

	if len(expired) > 0 {
		r.logger.Info("expiry sweep completed", "reaped", len(expired))
	}
	return len(expired), nil
}
