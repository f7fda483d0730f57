package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrTargetNotFound reports that no candidate strategy located a logical
// target. Callers decide whether that is fatal for their step.
var ErrTargetNotFound = errors.New("target not found")

// Candidate is one element-location strategy for a logical target. Candidates
// are tried in order; the list encodes empirical priority, most specific and
// stable selector first.
type Candidate struct {
	Desc      string
	Sel       string
	By        chromedp.QueryOption
	Clickable bool
}

// Resolver tries an ordered list of candidate strategies until one becomes
// actionable within a bounded wait.
type Resolver struct {
	timeout time.Duration
	logger  *slog.Logger

	// probe checks a single candidate; swapped out in tests.
	probe func(ctx context.Context, c Candidate) error
}

// NewResolver builds a resolver whose probes run against the given session,
// each bounded by timeout.
func NewResolver(s *Session, timeout time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		timeout: timeout,
		logger:  logger,
		probe: func(_ context.Context, c Candidate) error {
			by := c.By
			if by == nil {
				by = chromedp.ByQuery
			}
			actions := []chromedp.Action{chromedp.WaitVisible(c.Sel, by)}
			if c.Clickable {
				actions = append(actions, chromedp.WaitEnabled(c.Sel, by))
			}
			return s.RunFor(timeout, actions...)
		},
	}
}

// Resolve attempts each candidate in order and returns the first one that
// becomes actionable. It returns ErrTargetNotFound (wrapped with the target
// name) when the whole list is exhausted; it never panics past this boundary.
func (r *Resolver) Resolve(ctx context.Context, target string, candidates []Candidate) (Candidate, error) {
	for i, c := range candidates {
		if err := r.probe(ctx, c); err != nil {
			r.logger.Debug("candidate failed",
				slog.String("target", target),
				slog.Int("candidate", i+1),
				slog.String("desc", c.Desc),
				slog.String("error", err.Error()))
			continue
		}
		r.logger.Debug("target resolved",
			slog.String("target", target),
			slog.Int("candidate", i+1),
			slog.String("desc", c.Desc))
		return c, nil
	}
	return Candidate{}, fmt.Errorf("%w: %s (%d candidates tried)", ErrTargetNotFound, target, len(candidates))
}
