package kind

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kindcli/internal/config"
)

// Source is one live search surface: a portal page that can be configured,
// searched, and walked page by page. One Source maps to one browser session.
type Source interface {
	Open(ctx context.Context) error
	Configure(ctx context.Context, sc SearchConfig) error
	Search(ctx context.Context) error
	ExtractPage(ctx context.Context) ([]DisclosureRecord, error)
	Advance(ctx context.Context) bool
	Screenshot(prefix string)
}

// SourceFactory creates a fresh Source and its cleanup. The collector opens
// one per Collect call and one per year in CollectYears, so a crashed
// session never poisons subsequent work.
type SourceFactory func(ctx context.Context) (Source, func(), error)

// Collector runs searches over date ranges, splitting long periods into
// sub-ranges and accumulating whatever each sub-range yields. It trades
// completeness guarantees for resilience: errors cost at most one sub-range.
type Collector struct {
	factory SourceFactory
	cfg     config.CollectorConfig
	pace    Pacing
	logger  *slog.Logger
}

// NewCollector builds a collector over the given source factory.
func NewCollector(factory SourceFactory, cfg config.CollectorConfig, logger *slog.Logger) *Collector {
	return &Collector{
		factory: factory,
		cfg:     cfg,
		pace:    PacingFromConfig(cfg),
		logger:  logger,
	}
}

// Collect gathers disclosure records for the configured date range. Ranges
// longer than a year are split into sub-ranges of at most MaxMonths each,
// searched independently on one shared session. The returned slice is
// deduplicated and sorted newest first; it holds whatever was gathered even
// when err is non-nil.
func (c *Collector) Collect(ctx context.Context, sc SearchConfig) ([]DisclosureRecord, error) {
	if err := sc.Range.Validate(); err != nil {
		return nil, err
	}

	ranges := []DateRange{sc.Range}
	if sc.Range.Days() > splitThresholdDays {
		ranges = SplitDateRange(sc.Range.Start, sc.Range.End, c.cfg.MaxMonths)
		c.logger.Info("date range split",
			slog.String("range", sc.Range.String()),
			slog.Int("sub_ranges", len(ranges)))
	}

	src, cleanup, err := c.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}
	defer cleanup()

	var all []DisclosureRecord
	var firstErr error
	for i, r := range ranges {
		sub := sc
		sub.Range = r
		records, err := c.runPeriod(ctx, src, sub, sc.MaxPages)
		all = append(all, records...)
		if err != nil {
			c.logger.Error("sub-range failed, keeping partial results",
				slog.String("range", r.String()),
				slog.Int("records", len(records)),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = fmt.Errorf("range %s: %w", r, err)
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}
		c.logger.Info("sub-range collected",
			slog.String("range", r.String()),
			slog.Int("records", len(records)))
		if i < len(ranges)-1 {
			if err := Sleep(ctx, c.pace.BetweenRanges); err != nil {
				firstErr = err
				break
			}
		}
	}

	return Normalize(all), firstErr
}

// runPeriod searches one sub-range and walks its result pages. pageCap
// bounds the walk when positive; zero means walk until pagination ends. A
// run also stops after EmptyPageLimit consecutive empty pages or at the
// absolute PageCeiling. Partial results are returned alongside any error,
// and a panic inside the browser stack is converted into one.
func (c *Collector) runPeriod(ctx context.Context, src Source, sc SearchConfig, pageCap int) (records []DisclosureRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during collection: %v", r)
		}
	}()

	if err := src.Open(ctx); err != nil {
		return nil, err
	}
	if err := src.Configure(ctx, sc); err != nil {
		return nil, err
	}
	if err := src.Search(ctx); err != nil {
		return nil, err
	}

	emptyStreak := 0
	for page := 1; ; page++ {
		pageRecords, err := src.ExtractPage(ctx)
		if err != nil {
			return records, fmt.Errorf("page %d: %w", page, err)
		}
		records = append(records, pageRecords...)

		if len(pageRecords) == 0 {
			emptyStreak++
			if emptyStreak >= c.cfg.EmptyPageLimit {
				c.logger.Info("stopping on consecutive empty pages",
					slog.Int("page", page), slog.Int("streak", emptyStreak))
				break
			}
		} else {
			emptyStreak = 0
		}

		if pageCap > 0 && page >= pageCap {
			c.logger.Info("page cap reached", slog.Int("page", page))
			break
		}
		if page >= c.cfg.PageCeiling {
			c.logger.Warn("page ceiling reached, stopping walk", slog.Int("page", page))
			break
		}

		if err := Sleep(ctx, c.pace.BetweenPages); err != nil {
			return records, err
		}
		if !src.Advance(ctx) {
			break
		}
	}

	return records, nil
}

// CollectYears runs one full-year collection per calendar year from startYear
// through endYear inclusive, each on its own source, and returns per-year
// results keyed by year plus the combined normalized set. Years that fail
// contribute whatever they gathered before failing.
func (c *Collector) CollectYears(ctx context.Context, sc SearchConfig, startYear, endYear int) (map[int][]DisclosureRecord, []DisclosureRecord, error) {
	if startYear > endYear {
		return nil, nil, fmt.Errorf("start year %d is after end year %d", startYear, endYear)
	}

	byYear := make(map[int][]DisclosureRecord, endYear-startYear+1)
	var combined []DisclosureRecord
	var firstErr error

	for year := startYear; year <= endYear; year++ {
		yearSC := sc
		yearSC.Range = DateRange{
			Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
		records, err := c.Collect(ctx, yearSC)
		byYear[year] = records
		combined = append(combined, records...)
		if err != nil {
			c.logger.Error("year failed, keeping partial results",
				slog.Int("year", year),
				slog.Int("records", len(records)),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = fmt.Errorf("year %d: %w", year, err)
			}
			if ctx.Err() != nil {
				break
			}
		}
		if year < endYear {
			if err := Sleep(ctx, c.pace.BetweenYears); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				break
			}
		}
	}

	return byYear, Normalize(combined), firstErr
}
