package kind

import (
	"sort"
	"strings"
	"time"
)

// recordTimeLayouts are tried in order against the dash-normalized datetime
// text.
var recordTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Normalize merges accumulated records into one output set: exact duplicates
// on the (datetime, company, title) key are removed keeping the first
// occurrence, and the result is sorted by parsed datetime descending.
// Records whose datetime cannot be parsed sort after parseable ones instead
// of aborting the sort. Idempotent.
func Normalize(records []DisclosureRecord) []DisclosureRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]DisclosureRecord, 0, len(records))
	for _, r := range records {
		key := dedupKey(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, iOK := ParseRecordTime(out[i].Datetime)
		tj, jOK := ParseRecordTime(out[j].Datetime)
		switch {
		case iOK && jOK:
			return ti.After(tj)
		case iOK:
			return true
		default:
			return false
		}
	})

	return out
}

func dedupKey(r DisclosureRecord) string {
	return r.Datetime + "\x1f" + r.CompanyName + "\x1f" + r.Title
}

// ParseRecordTime parses a record's raw datetime display text, accepting
// dot- or dash-separated dates with an optional time component.
func ParseRecordTime(raw string) (time.Time, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ".", "-")
	for _, layout := range recordTimeLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SplitDatetime splits the raw datetime display text into separate date and
// time fields: the first whitespace-delimited token versus the remainder,
// with dot-separated dates normalized to dash-separated.
func SplitDatetime(raw string) (date, timeOfDay string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", ""
	}
	date = strings.ReplaceAll(fields[0], ".", "-")
	timeOfDay = strings.Join(fields[1:], " ")
	return date, timeOfDay
}
