package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXWriter_WriteRecords(t *testing.T) {
	paths := testPaths(t)
	w := NewXLSXWriter(paths)

	require.NoError(t, w.WriteRecords("investment_warning_2024.csv", sampleRecords()))

	fullPath := paths.GetReportPath("investment_warning_2024.xlsx")
	require.FileExists(t, fullPath)

	f, err := excelize.OpenFile(fullPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, RecordHeaders[:3], rows[0][:3])
	assert.Equal(t, "에이코프", rows[1][3])
	assert.Equal(t, "비테크", rows[2][3])
}

func TestXLSXWriter_ResolvePath(t *testing.T) {
	paths := testPaths(t)
	w := NewXLSXWriter(paths)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"csv extension swapped", "report.csv", paths.GetReportPath("report.xlsx")},
		{"bare name extended", "report", paths.GetReportPath("report.xlsx")},
		{"xlsx kept", "report.xlsx", paths.GetReportPath("report.xlsx")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.resolvePath(tt.in))
		})
	}
}
