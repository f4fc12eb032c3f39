package healing

import (
	"context"
	"log/slog"
	"time"
)

// Janitor prunes activation history older than the retention window on
// a fixed schedule. It runs decoupled from request handlers and shares
// the history lock with the append and read paths.
type Janitor struct {
	history   *History
	retention time.Duration
	interval  time.Duration
	log       *slog.Logger
}

func NewJanitor(history *History, retention, interval time.Duration, log *slog.Logger) *Janitor {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &Janitor{
		history:   history,
		retention: retention,
		interval:  interval,
		log:       log,
	}
}

// Start runs the janitor loop until the context is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *Janitor) sweep() {
	cutoff := time.Now().Add(-j.retention)
	if pruned := j.history.PruneOlderThan(cutoff); pruned > 0 {
		j.log.Debug("pruned activation history", "records", pruned)
	}
}
