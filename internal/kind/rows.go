package kind

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Row-locating expressions in empirical priority order: most specific table
// structure first. The first expression yielding at least one candidate row
// wins.
var rowSelectors = []string{
	"div.list_content table tbody tr",
	"table.list tbody tr",
	"tbody tr",
	"table tr",
}

// headerKeywords identify column-label rows by their first cell. Compared
// against trimmed, lower-cased cell text.
var headerKeywords = []string{
	"번호", "no", "순번", "시간", "time", "접수번호", "공시제목", "회사명", "제출인",
}

// headerTitleLabels are title-cell texts that mark a row as a stray header
// even when the first cell looked like data.
var headerTitleLabels = map[string]struct{}{
	"공시제목": {},
	"제목":   {},
	"title": {},
}

// noResultMarkers are the portal's known empty-result messages. Their
// presence makes a rowless page a normal empty outcome rather than a
// structural failure.
var noResultMarkers = []string{
	"검색결과가 없습니다",
	"조회된 데이터가 없습니다",
	"검색된 결과가 없습니다",
	"데이터가 없습니다",
}

var (
	onclickViewerRe = regexp.MustCompile(`openDisclsViewer\('([^']*)',\s*'([^']*)',\s*'([^']*)'`)
	hrefViewerRe    = regexp.MustCompile(`disclsviewer\.do\?method=search&acptno=([^&]+)&docno=([^&]+)&viewerhost=([^&]+)`)
)

// ParseDetailLink extracts the (accession number, document number, viewer
// host) triplet from a title link's click handler or href and assembles the
// canonical viewer URL. Returns nil when neither attribute carries a
// recognizable reference.
func ParseDetailLink(onclick, href, baseURL string) *DetailLink {
	var m []string
	if strings.Contains(onclick, "openDisclsViewer") {
		m = onclickViewerRe.FindStringSubmatch(onclick)
	}
	if m == nil && strings.Contains(href, "disclsviewer.do") {
		m = hrefViewerRe.FindStringSubmatch(href)
	}
	if m == nil {
		return nil
	}

	link := &DetailLink{
		AccessionNo: m[1],
		DocumentNo:  m[2],
		ViewerHost:  m[3],
	}
	link.URL = fmt.Sprintf(
		"%s/common/disclsviewer.do?method=search&acptno=%s&docno=%s&viewerhost=%s&viewerport=",
		baseURL, link.AccessionNo, link.DocumentNo, link.ViewerHost)
	return link
}

// HasNoResultsMarker reports whether the page carries one of the portal's
// known empty-result messages.
func HasNoResultsMarker(html string) bool {
	for _, marker := range noResultMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}

// ExtractRecords parses the currently loaded result page HTML into the list
// of visible disclosure records.
//
// The empty-vs-broken decision is made after row classification, not before:
// a page that yields zero records is a normal empty result only when a
// "no results" marker is present, and ErrStructureChanged otherwise. Header
// rows and rejected rows do not count as data, so a header-only table or a
// lone message cell without a marker is a structural failure too.
// Extraction is idempotent: the same HTML always yields the same record set.
func ExtractRecords(html, baseURL string, logger *slog.Logger) ([]DisclosureRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse result page: %w", err)
	}

	var records []DisclosureRecord
	if rows := locateRows(doc); rows != nil {
		rows.Each(func(i int, row *goquery.Selection) {
			rec, ok := parseRow(row, len(records)+1, baseURL)
			if !ok {
				return
			}
			records = append(records, rec)
		})
	}

	if len(records) == 0 {
		if HasNoResultsMarker(html) {
			logger.Info("no search results on page")
			return nil, nil
		}
		return nil, ErrStructureChanged
	}

	logger.Info("extracted records from page", slog.Int("count", len(records)))
	return records, nil
}

// locateRows tries the ordered row-locating expressions and returns the
// first non-empty candidate row set, filtered to rows that actually carry
// data cells.
func locateRows(doc *goquery.Document) *goquery.Selection {
	for _, sel := range rowSelectors {
		rows := doc.Find(sel).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Find("td").Length() > 0
		})
		if rows.Length() > 0 {
			return rows
		}
	}
	return nil
}

// parseRow maps one table row to a record. Returns ok=false for header rows
// and rows rejected by the malformed-data heuristics.
func parseRow(row *goquery.Selection, synthNum int, baseURL string) (DisclosureRecord, bool) {
	cells := row.Find("td")
	n := cells.Length()
	if n < 3 {
		return DisclosureRecord{}, false
	}

	cellText := func(i int) string {
		return strings.TrimSpace(cells.Eq(i).Text())
	}

	first := strings.ToLower(cellText(0))
	if first == "" || isHeaderCell(first) {
		return DisclosureRecord{}, false
	}

	// Variable column counts map onto one fixed layout; the row number is
	// synthesized when the portal omits it.
	var rowNum, timeText, company string
	var titleCell *goquery.Selection
	submitter := ""
	switch {
	case n >= 5:
		rowNum = cellText(0)
		timeText = cellText(1)
		company = cellText(2)
		titleCell = cells.Eq(3)
		submitter = cellText(4)
	case n == 4:
		rowNum = strconv.Itoa(synthNum)
		timeText = cellText(0)
		company = cellText(1)
		titleCell = cells.Eq(2)
		submitter = cellText(3)
	default: // n == 3
		rowNum = strconv.Itoa(synthNum)
		timeText = cellText(0)
		company = cellText(1)
		titleCell = cells.Eq(2)
	}

	title := strings.TrimSpace(titleCell.Text())
	var link *DetailLink
	if a := titleCell.Find("a").First(); a.Length() > 0 {
		title = strings.TrimSpace(a.Text())
		onclick, _ := a.Attr("onclick")
		href, _ := a.Attr("href")
		link = ParseDetailLink(onclick, href, baseURL)
	}

	if title == "" || company == "" {
		return DisclosureRecord{}, false
	}
	if _, isLabel := headerTitleLabels[strings.ToLower(title)]; isLabel {
		return DisclosureRecord{}, false
	}
	// A time field shorter than "HH:MM:SS" is malformed or non-data text.
	if utf8.RuneCountInString(timeText) < 8 {
		return DisclosureRecord{}, false
	}

	analysis := AnalyzeTitle(title)
	return DisclosureRecord{
		RowNum:           rowNum,
		Datetime:         timeText,
		CompanyName:      company,
		Title:            title,
		Submitter:        submitter,
		Link:             link,
		IsRedesignation:  analysis.IsRedesignation,
		IsPreferredStock: analysis.IsPreferredStock,
		DesignationType:  analysis.DesignationType,
	}, true
}

func isHeaderCell(lowered string) bool {
	for _, kw := range headerKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
