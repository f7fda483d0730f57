package kind

import (
	"errors"
	"fmt"
	"time"
)

// DesignationType classifies what a disclosure title does to the
// investment-warning status of a stock.
type DesignationType string

const (
	// DesignationUnknown means the title carried no warning keyword at all.
	DesignationUnknown DesignationType = "unknown"
	// Designation imposes the investment-warning status.
	Designation DesignationType = "designation"
	// Cancellation lifts the investment-warning status.
	Cancellation DesignationType = "cancellation"
	// DesignationOther is a warning-related disclosure that neither clearly
	// imposes nor lifts the status.
	DesignationOther DesignationType = "other"
)

// Market selects the market scope of a search.
type Market string

const (
	MarketAll    Market = "all"
	MarketMain   Market = "main"   // 유가증권
	MarketGrowth Market = "growth" // 코스닥
)

// DisclosureType is a market-action disclosure category on the portal's
// search form. Values are the portal's own labels.
type DisclosureType string

const (
	TypeInvestmentWarning    DisclosureType = "투자경고종목"
	TypeUnfaithfulDisclosure DisclosureType = "불성실공시"
	TypeListingManagement    DisclosureType = "상장관리종목"
)

// DetailLink is the structured reference to a specific disclosure document:
// accession number, document number and viewer host, plus the canonical
// viewer URL assembled from them.
type DetailLink struct {
	AccessionNo string
	DocumentNo  string
	ViewerHost  string
	URL         string
}

// DisclosureRecord is one row of the portal's search result. Immutable once
// extracted.
type DisclosureRecord struct {
	RowNum           string
	Datetime         string // raw display text, e.g. "2024.03.15 08:00:00"
	CompanyName      string
	Title            string
	Submitter        string
	Link             *DetailLink
	IsRedesignation  bool
	IsPreferredStock bool
	DesignationType  DesignationType
}

// DateRange is a calendar date range, inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Validate checks the start <= end invariant.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return errors.New("date range start and end must be set")
	}
	if r.Start.After(r.End) {
		return fmt.Errorf("date range start %s is after end %s",
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	return nil
}

// Days returns the span of the range in days.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

func (r DateRange) String() string {
	return r.Start.Format("2006-01-02") + " ~ " + r.End.Format("2006-01-02")
}

// SearchConfig describes one search to run against the portal. Applied once
// per sub-range; never mutated mid-pagination.
type SearchConfig struct {
	Range    DateRange
	Market   Market
	Types    []DisclosureType
	PageSize int
	// MaxPages bounds pagination per sub-range; 0 walks every page.
	MaxPages int
}
