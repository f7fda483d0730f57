package kind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  TitleAnalysis
	}{
		{
			name:  "warning designation",
			title: "투자경고종목 지정",
			want:  TitleAnalysis{DesignationType: Designation},
		},
		{
			name:  "cancellation wins over designation",
			title: "투자경고종목 지정 해제",
			want:  TitleAnalysis{DesignationType: Cancellation},
		},
		{
			name:  "redesignation also designates",
			title: "투자경고종목 재지정",
			want:  TitleAnalysis{IsRedesignation: true, DesignationType: Designation},
		},
		{
			name:  "warning without direction",
			title: "투자경고종목 지정예고 안내",
			want:  TitleAnalysis{DesignationType: Designation},
		},
		{
			name:  "warning extension is other",
			title: "투자경고종목 연장",
			want:  TitleAnalysis{DesignationType: DesignationOther},
		},
		{
			name:  "no warning keyword",
			title: "주요사항보고서 제출",
			want:  TitleAnalysis{DesignationType: DesignationUnknown},
		},
		{
			name:  "preferred stock flag",
			title: "삼성전자우선주 투자경고종목 지정",
			want:  TitleAnalysis{IsPreferredStock: true, DesignationType: Designation},
		},
		{
			name:  "preferred keyword case-insensitive",
			title: "PREFERRED stock 투자경고종목 해제",
			want:  TitleAnalysis{IsPreferredStock: true, DesignationType: Cancellation},
		},
		{
			name:  "reselection keyword",
			title: "불성실공시법인 재선정",
			want:  TitleAnalysis{IsRedesignation: true, DesignationType: DesignationUnknown},
		},
		{
			name:  "empty title",
			title: "",
			want:  TitleAnalysis{DesignationType: DesignationUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeTitle(tt.title))
		})
	}
}

func TestAnalyzeTitle_Deterministic(t *testing.T) {
	title := "투자경고종목 재지정 (우선주)"
	first := AnalyzeTitle(title)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, AnalyzeTitle(title))
	}
	assert.True(t, first.IsRedesignation)
	assert.True(t, first.IsPreferredStock)
	assert.Equal(t, Designation, first.DesignationType)
}
