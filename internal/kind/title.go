package kind

import "strings"

// Keyword sets are locale-specific and incomplete by construction; they track
// what the portal has actually been observed to emit. Kept in one place so a
// markup change means one edit.
var (
	redesignationKeywords  = []string{"재지정", "재선정", "재대상"}
	preferredStockKeywords = []string{"우선주", "우선株", "preferred"}

	warningKeyword      = "투자경고"
	designateKeyword    = "지정"
	cancellationKeyword = "해제"
)

// TitleAnalysis is the classification of one disclosure title.
type TitleAnalysis struct {
	IsRedesignation  bool
	IsPreferredStock bool
	DesignationType  DesignationType
}

// AnalyzeTitle classifies a disclosure title by substring matching against
// the fixed keyword sets. The preferred-stock check is case-insensitive.
func AnalyzeTitle(title string) TitleAnalysis {
	a := TitleAnalysis{DesignationType: DesignationUnknown}

	for _, kw := range redesignationKeywords {
		if strings.Contains(title, kw) {
			a.IsRedesignation = true
			break
		}
	}

	lower := strings.ToLower(title)
	for _, kw := range preferredStockKeywords {
		if strings.Contains(lower, kw) {
			a.IsPreferredStock = true
			break
		}
	}

	if strings.Contains(title, warningKeyword) {
		switch {
		case strings.Contains(title, cancellationKeyword):
			a.DesignationType = Cancellation
		case strings.Contains(title, designateKeyword):
			a.DesignationType = Designation
		default:
			a.DesignationType = DesignationOther
		}
	}

	return a
}
