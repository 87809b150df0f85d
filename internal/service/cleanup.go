package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vitikova/user-service/internal/repo"
)

// CleanupInterval is the cadence of the blacklist sweep.
const CleanupInterval = time.Second

// RunBlacklistCleanup purges expired blacklist rows on a fixed ticker until
// the context is cancelled. It runs independently of request traffic; a
// failed or panicking sweep is logged and never suspends later runs.
func RunBlacklistCleanup(ctx context.Context, r *repo.GormRepo, interval time.Duration, l *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sweepOnce(ctx, r, now, l)
		}
	}
}

func sweepOnce(ctx context.Context, r *repo.GormRepo, now time.Time, l *slog.Logger) {
	defer func() {
		if v := recover(); v != nil {
			l.Error("blacklist_cleanup_panic", "panic", v)
		}
	}()

	removed, err := r.PurgeExpired(ctx, now)
	if err != nil {
		l.Error("blacklist_cleanup_failed", "error", err)
		return
	}
	if removed > 0 {
		l.Debug("blacklist_cleanup", "removed", removed)
	}
}
