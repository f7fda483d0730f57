package kind

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Deduplicates(t *testing.T) {
	first := DisclosureRecord{
		Datetime:        "2024.03.15 08:00:00",
		CompanyName:     "에이코프",
		Title:           "투자경고종목 지정",
		Submitter:       "유가증권시장본부",
		DesignationType: Designation,
	}
	duplicate := first
	duplicate.Submitter = "코스닥시장본부" // not part of the identity key

	out := Normalize([]DisclosureRecord{first, duplicate})
	require.Len(t, out, 1)
	assert.Equal(t, "유가증권시장본부", out[0].Submitter, "first occurrence wins")
	assert.Equal(t, Designation, out[0].DesignationType)
}

func TestNormalize_KeyIsDatetimeCompanyTitle(t *testing.T) {
	base := DisclosureRecord{
		Datetime:    "2024.03.15 08:00:00",
		CompanyName: "에이코프",
		Title:       "투자경고종목 지정",
	}
	differentTime := base
	differentTime.Datetime = "2024.03.16 08:00:00"
	differentCompany := base
	differentCompany.CompanyName = "비테크"
	differentTitle := base
	differentTitle.Title = "투자경고종목 지정 해제"

	out := Normalize([]DisclosureRecord{base, differentTime, differentCompany, differentTitle})
	assert.Len(t, out, 4)
}

func TestNormalize_SortsNewestFirst(t *testing.T) {
	records := []DisclosureRecord{
		{Datetime: "2024.01.10 09:00:00", CompanyName: "가", Title: "t1"},
		{Datetime: "2024.03.15 08:00:00", CompanyName: "나", Title: "t2"},
		{Datetime: "2024-02-01", CompanyName: "다", Title: "t3"},
	}

	out := Normalize(records)
	require.Len(t, out, 3)
	assert.Equal(t, "나", out[0].CompanyName)
	assert.Equal(t, "다", out[1].CompanyName)
	assert.Equal(t, "가", out[2].CompanyName)
}

func TestNormalize_UnparseableDatetimeSortsLast(t *testing.T) {
	records := []DisclosureRecord{
		{Datetime: "확인 불가", CompanyName: "가", Title: "t1"},
		{Datetime: "2024.03.15 08:00:00", CompanyName: "나", Title: "t2"},
	}

	out := Normalize(records)
	require.Len(t, out, 2)
	assert.Equal(t, "나", out[0].CompanyName)
	assert.Equal(t, "가", out[1].CompanyName)
}

func TestNormalize_Idempotent(t *testing.T) {
	records := []DisclosureRecord{
		{Datetime: "2024.01.10 09:00:00", CompanyName: "가", Title: "t1"},
		{Datetime: "2024.03.15 08:00:00", CompanyName: "나", Title: "t2"},
		{Datetime: "2024.01.10 09:00:00", CompanyName: "가", Title: "t1"},
	}

	once := Normalize(records)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Normalize([]DisclosureRecord{}))
}

func TestParseRecordTime(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   time.Time
		wantOK bool
	}{
		{"dotted datetime", "2024.03.15 08:00:00", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), true},
		{"dashed datetime", "2024-03-15 08:00:00", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), true},
		{"minutes only", "2024.03.15 08:00", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), true},
		{"date only", "2024.03.15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"surrounding space", "  2024.03.15 08:00:00  ", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), true},
		{"garbage", "확인 불가", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRecordTime(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
			}
		})
	}
}

func TestSplitDatetime(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantDate string
		wantTime string
	}{
		{"dotted datetime", "2024.03.15 08:00:00", "2024-03-15", "08:00:00"},
		{"date only", "2024.03.15", "2024-03-15", ""},
		{"already dashed", "2024-03-15 08:00", "2024-03-15", "08:00"},
		{"empty", "", "", ""},
		{"extra whitespace", "  2024.03.15   08:00:00 ", "2024-03-15", "08:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDate, gotTime := SplitDatetime(tt.raw)
			assert.Equal(t, tt.wantDate, gotDate)
			assert.Equal(t, tt.wantTime, gotTime)
		})
	}
}
