package kind

import "time"

// splitThresholdDays is the span above which a requested range is chunked
// into sub-ranges for manageable, rate-limited querying.
const splitThresholdDays = 365

// SplitDateRange chunks [start, end] into contiguous, non-overlapping
// sub-ranges of at most maxMonths calendar months each, covering the
// original range exactly once. The end of one sub-range plus one day is the
// start of the next; month arithmetic normalizes across year boundaries.
func SplitDateRange(start, end time.Time, maxMonths int) []DateRange {
	if maxMonths < 1 {
		maxMonths = 1
	}

	var ranges []DateRange
	for cur := start; !cur.After(end); {
		sub := cur.AddDate(0, maxMonths, 0)
		if sub.After(end) {
			sub = end
		}
		ranges = append(ranges, DateRange{Start: cur, End: sub})
		cur = sub.AddDate(0, 0, 1)
	}
	return ranges
}
