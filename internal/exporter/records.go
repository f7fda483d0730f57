package exporter

import (
	"fmt"
	"strconv"
	"time"

	"kindcli/internal/config"
	"kindcli/internal/kind"
)

// RecordHeaders is the fixed CSV column layout for disclosure exports.
// Order is part of the output contract; downstream tooling indexes by it.
var RecordHeaders = []string{
	"row_num",
	"date",
	"time",
	"company_name",
	"title",
	"submitter",
	"is_redesignation",
	"is_preferred_stock",
	"designation_type",
	"disclosure_link",
}

// RecordRow maps one disclosure record onto the fixed column layout.
func RecordRow(r kind.DisclosureRecord) []string {
	date, timeOfDay := kind.SplitDatetime(r.Datetime)
	link := ""
	if r.Link != nil {
		link = r.Link.URL
	}
	return []string{
		r.RowNum,
		date,
		timeOfDay,
		r.CompanyName,
		r.Title,
		r.Submitter,
		strconv.FormatBool(r.IsRedesignation),
		strconv.FormatBool(r.IsPreferredStock),
		string(r.DesignationType),
		link,
	}
}

// RecordRows maps a record set onto CSV rows, preserving order.
func RecordRows(records []kind.DisclosureRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, RecordRow(r))
	}
	return rows
}

// DefaultFilename names a range export:
// investment_warning_stocks_{start}_{end}_{timestamp}.csv.
func DefaultFilename(r kind.DateRange, now time.Time) string {
	return fmt.Sprintf("investment_warning_stocks_%s_%s_%s.csv",
		r.Start.Format("20060102"),
		r.End.Format("20060102"),
		now.Format("20060102_150405"))
}

// YearFilename names a single-year export.
func YearFilename(year int) string {
	return fmt.Sprintf("investment_warning_%d.csv", year)
}

// CombinedFilename names the merged multi-year export.
func CombinedFilename(startYear, endYear int) string {
	return fmt.Sprintf("investment_warning_stocks_%d_%d_combined.csv", startYear, endYear)
}

// RecordExporter writes disclosure record sets as report files.
type RecordExporter struct {
	csv *CSVWriter
}

// NewRecordExporter creates a record exporter rooted at the reports
// directory.
func NewRecordExporter(paths *config.Paths) *RecordExporter {
	return &RecordExporter{csv: NewCSVWriter(paths)}
}

// ExportRange writes a date-range collection to its timestamped report file
// and returns the filename used.
func (e *RecordExporter) ExportRange(records []kind.DisclosureRecord, r kind.DateRange) (string, error) {
	name := DefaultFilename(r, time.Now())
	if err := e.csv.WriteSimpleCSV(name, RecordHeaders, RecordRows(records)); err != nil {
		return "", err
	}
	return name, nil
}

// ExportYear writes one calendar year's records to its report file and
// returns the filename used.
func (e *RecordExporter) ExportYear(year int, records []kind.DisclosureRecord) (string, error) {
	name := YearFilename(year)
	if err := e.csv.WriteSimpleCSV(name, RecordHeaders, RecordRows(records)); err != nil {
		return "", err
	}
	return name, nil
}

// ExportCombined streams the merged multi-year record set to the combined
// report file and returns the filename used.
func (e *RecordExporter) ExportCombined(startYear, endYear int, records []kind.DisclosureRecord) (string, error) {
	name := CombinedFilename(startYear, endYear)
	stream, err := e.csv.CreateStreamWriter(name, RecordHeaders)
	if err != nil {
		return "", err
	}
	for _, r := range records {
		if err := stream.WriteRecord(RecordRow(r)); err != nil {
			stream.Close()
			return "", err
		}
	}
	if err := stream.Close(); err != nil {
		return "", err
	}
	return name, nil
}
