package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"kindcli/internal/config"
	"kindcli/internal/kind"
)

const xlsxSheetName = "Disclosures"

// XLSXWriter writes disclosure records as a spreadsheet with the same
// column layout as the CSV exports.
type XLSXWriter struct {
	paths *config.Paths
}

// NewXLSXWriter creates a new spreadsheet writer.
func NewXLSXWriter(paths *config.Paths) *XLSXWriter {
	return &XLSXWriter{paths: paths}
}

// WriteRecords writes the record set to an .xlsx report file. A .csv
// extension on the given name is swapped for .xlsx.
func (w *XLSXWriter) WriteRecords(filePath string, records []kind.DisclosureRecord) error {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := writeRow(f, 1, RecordHeaders); err != nil {
		return err
	}
	for i, r := range records {
		if err := writeRow(f, i+2, RecordRow(r)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell (%d,%d): %w", col+1, row, err)
		}
		if err := f.SetCellValue(xlsxSheetName, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

func (w *XLSXWriter) resolvePath(filePath string) string {
	if ext := filepath.Ext(filePath); strings.EqualFold(ext, ".csv") {
		filePath = strings.TrimSuffix(filePath, ext) + ".xlsx"
	} else if ext == "" {
		filePath += ".xlsx"
	}
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
