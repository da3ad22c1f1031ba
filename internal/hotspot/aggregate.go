package hotspot

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/hotspot-cli/internal/model"
)

// CategoryCount is one row of an aggregation table.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// weekdayOrder fixes Monday-first ordering for day-of-week tables.
var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var titleCaser = cases.Title(language.AmericanEnglish)

// DisplayName converts a raw upper-case dataset value like "LARCENY/THEFT"
// into a display form like "Larceny/Theft".
func DisplayName(raw string) string {
	return titleCaser.String(strings.ToLower(raw))
}

// CountByCategory returns incident counts per category, highest first, ties
// broken by name. n > 0 truncates to the top n.
func CountByCategory(incidents []model.Incident, n int) []CategoryCount {
	return countBy(incidents, n, func(inc model.Incident) string { return inc.Category })
}

// CountByDistrict returns incident counts per police district, highest first.
func CountByDistrict(incidents []model.Incident) []CategoryCount {
	return countBy(incidents, 0, func(inc model.Incident) string { return inc.PdDistrict })
}

// CountByResolution returns incident counts per resolution type, highest
// first. n > 0 truncates to the top n.
func CountByResolution(incidents []model.Incident, n int) []CategoryCount {
	return countBy(incidents, n, func(inc model.Incident) string { return inc.Resolution })
}

// CountByDay returns incident counts in calendar weekday order, skipping
// days with no incidents.
func CountByDay(incidents []model.Incident) []CategoryCount {
	byDay := make(map[string]int)
	for _, inc := range incidents {
		if inc.DayOfWeek != "" {
			byDay[inc.DayOfWeek]++
		}
	}

	var out []CategoryCount
	for _, day := range weekdayOrder {
		if n, ok := byDay[day]; ok {
			out = append(out, CategoryCount{Name: day, Count: n})
		}
	}
	return out
}

func countBy(incidents []model.Incident, n int, key func(model.Incident) string) []CategoryCount {
	byKey := make(map[string]int)
	for _, inc := range incidents {
		if k := key(inc); k != "" {
			byKey[k]++
		}
	}

	out := make([]CategoryCount, 0, len(byKey))
	for k, count := range byKey {
		out = append(out, CategoryCount{Name: k, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
