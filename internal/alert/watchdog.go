// internal/alert/watchdog.go
package alert

import (
	"context"
	"time"

	"cardapio-service/internal/common/logger"
)

// HealthChecker reports upstream reachability without erroring.
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// Watchdog polls the upstream menu API and raises an alert when it stays
// unreachable, since every request in that window is being served fallback
// data.
type Watchdog struct {
	checker  HealthChecker
	alerter  *Alerter
	interval time.Duration
	logger   logger.Logger
}

// NewWatchdog creates a connectivity watchdog.
func NewWatchdog(checker HealthChecker, alerter *Alerter, interval time.Duration, log logger.Logger) *Watchdog {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watchdog{
		checker:  checker,
		alerter:  alerter,
		interval: interval,
		logger:   log,
	}
}

// Run polls until the context is cancelled. It alerts on the healthy to
// unhealthy transition and logs the recovery.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reachable := w.checker.HealthCheck(ctx)
			switch {
			case !reachable && healthy:
				healthy = false
				w.logger.Warn("Menu API became unreachable", nil)
				w.alerter.FallbackServed(ctx, "upstream", "menu API health check failing")
			case reachable && !healthy:
				healthy = true
				w.logger.Info("Menu API connectivity recovered", nil)
			}
		}
	}
}
