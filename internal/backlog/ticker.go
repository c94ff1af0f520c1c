package backlog

import (
	"context"
	"time"
)

// RunPeriodicRefresh rescans the filesystem every interval until ctx is
// canceled. Callers also call ApplyWalState / RefreshFullScan eagerly on
// writes; this ticker is the periodic backstop for changes neither catches.
func (o *Observer) RunPeriodicRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.RefreshFullScan()
		}
	}
}
