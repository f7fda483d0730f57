package kind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	records := []DisclosureRecord{
		{Datetime: "2024.01.10 09:00:00", CompanyName: "에이코프", Title: "지정", DesignationType: Designation},
		{Datetime: "2024.03.15 08:00:00", CompanyName: "에이코프", Title: "해제", DesignationType: Cancellation, IsRedesignation: true},
		{Datetime: "2024.02.01 10:00:00", CompanyName: "비테크", Title: "지정", DesignationType: Designation, IsPreferredStock: true},
		{Datetime: "이상한 값", CompanyName: "씨랩", Title: "기타", DesignationType: DesignationUnknown},
	}

	stats := Summarize(records)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Companies)
	assert.Equal(t, "2024-01-10", stats.EarliestDate)
	assert.Equal(t, "2024-03-15", stats.LatestDate)
	assert.Equal(t, 2, stats.DesignationCounts[Designation])
	assert.Equal(t, 1, stats.DesignationCounts[Cancellation])
	assert.Equal(t, 1, stats.DesignationCounts[DesignationUnknown])
	assert.InDelta(t, 0.25, stats.RedesignationRatio, 1e-9)
	assert.InDelta(t, 0.25, stats.PreferredRatio, 1e-9)

	require.NotEmpty(t, stats.TopCompanies)
	assert.Equal(t, CompanyCount{Name: "에이코프", Count: 2}, stats.TopCompanies[0])
}

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Companies)
	assert.Empty(t, stats.EarliestDate)
	assert.Empty(t, stats.TopCompanies)
}

func TestSummarize_TopCompaniesBounded(t *testing.T) {
	var records []DisclosureRecord
	for i := 0; i < 15; i++ {
		records = append(records, DisclosureRecord{
			Datetime:    "2024.01.01",
			CompanyName: string(rune('A' + i)),
			Title:       "t",
		})
	}

	stats := Summarize(records)
	assert.Equal(t, 15, stats.Companies)
	assert.Len(t, stats.TopCompanies, topCompaniesLimit)
}
