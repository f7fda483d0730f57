// Package exporter writes collected disclosure records to report files.
//
// CSVWriter is the core writer: UTF-8 BOM for Excel compatibility, optional
// append mode, and a streaming variant for large combined exports.
// RecordExporter maps disclosure records onto the fixed CSV column layout
// and owns the output file naming. XLSXWriter produces the same table as a
// spreadsheet.
package exporter
