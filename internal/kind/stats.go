package kind

import "sort"

// CompanyCount is one entry of the per-company record distribution.
type CompanyCount struct {
	Name  string
	Count int
}

// Stats summarizes a collected record set.
type Stats struct {
	Total              int
	Companies          int
	EarliestDate       string
	LatestDate         string
	DesignationCounts  map[DesignationType]int
	RedesignationRatio float64
	PreferredRatio     float64
	TopCompanies       []CompanyCount
}

// topCompaniesLimit bounds the per-company distribution in Stats.
const topCompaniesLimit = 10

// Summarize computes the summary statistics of a record set.
func Summarize(records []DisclosureRecord) Stats {
	stats := Stats{
		Total:             len(records),
		DesignationCounts: make(map[DesignationType]int),
	}
	if len(records) == 0 {
		return stats
	}

	byCompany := make(map[string]int)
	redesignations, preferred := 0, 0
	for _, r := range records {
		byCompany[r.CompanyName]++
		stats.DesignationCounts[r.DesignationType]++
		if r.IsRedesignation {
			redesignations++
		}
		if r.IsPreferredStock {
			preferred++
		}
		if t, ok := ParseRecordTime(r.Datetime); ok {
			date := t.Format("2006-01-02")
			if stats.EarliestDate == "" || date < stats.EarliestDate {
				stats.EarliestDate = date
			}
			if date > stats.LatestDate {
				stats.LatestDate = date
			}
		}
	}

	stats.Companies = len(byCompany)
	stats.RedesignationRatio = float64(redesignations) / float64(len(records))
	stats.PreferredRatio = float64(preferred) / float64(len(records))

	for name, count := range byCompany {
		stats.TopCompanies = append(stats.TopCompanies, CompanyCount{Name: name, Count: count})
	}
	sort.Slice(stats.TopCompanies, func(i, j int) bool {
		if stats.TopCompanies[i].Count != stats.TopCompanies[j].Count {
			return stats.TopCompanies[i].Count > stats.TopCompanies[j].Count
		}
		return stats.TopCompanies[i].Name < stats.TopCompanies[j].Name
	})
	if len(stats.TopCompanies) > topCompaniesLimit {
		stats.TopCompanies = stats.TopCompanies[:topCompaniesLimit]
	}

	return stats
}
