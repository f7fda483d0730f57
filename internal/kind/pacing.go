package kind

import (
	"context"
	"time"

	"kindcli/internal/config"
)

// Pacing holds the unconditional delays applied between site interactions.
// Explicit and injectable so tests run with zero delays and operators can
// tune pacing without code changes.
type Pacing struct {
	AfterNavigate   time.Duration
	AfterFormChange time.Duration
	AfterClick      time.Duration
	BetweenPages    time.Duration
	BetweenRanges   time.Duration
	BetweenYears    time.Duration
}

// PacingFromConfig builds a Pacing from the collector configuration.
func PacingFromConfig(cfg config.CollectorConfig) Pacing {
	return Pacing{
		AfterNavigate:   cfg.AfterNavigate,
		AfterFormChange: cfg.AfterFormChange,
		AfterClick:      cfg.AfterClick,
		BetweenPages:    cfg.BetweenPages,
		BetweenRanges:   cfg.BetweenRanges,
		BetweenYears:    cfg.BetweenYears,
	}
}

// Sleep waits for d, returning early with the context error when the run is
// interrupted.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
