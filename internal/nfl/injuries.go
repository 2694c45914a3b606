package nfl

import "nfl_bot/internal/model"

// Injury status and body-part vocabulary that shows up in headline text.
var injuryKeywords = []string{
	"injury", "injured", "questionable", "doubtful", "ruled out",
	"injured reserve", "placed on ir", "acl", "mcl", "achilles",
	"hamstring", "concussion", "ankle", "surgery", "week-to-week",
	"day-to-day", "carted off",
}

// InjuryFilters returns the include rules the /injuries query applies to
// titles and bodies. Include rules are OR-ed by the filter engine, so any
// single keyword hit keeps the item.
func InjuryFilters() []model.Filter {
	filters := make([]model.Filter, 0, len(injuryKeywords))
	for _, kw := range injuryKeywords {
		filters = append(filters, model.Filter{
			Kind:  model.FilterInclude,
			Scope: model.ScopeAll,
			Value: kw,
		})
	}
	return filters
}
