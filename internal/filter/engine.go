// Package filter implements the feed item matching engine.
package filter

import (
	"regexp"
	"strings"

	"nfl_bot/internal/model"
)

// Match checks whether an item passes the given set of filters.
// If no filters are provided, the item always passes.
// Include filters use OR logic (at least one must match).
// Exclude filters use AND logic (none must match).
func Match(item model.Item, filters []model.Filter) bool {
	if len(filters) == 0 {
		return true
	}

	hasIncludes := false
	anyIncludeMatched := false

	for _, f := range filters {
		switch f.Kind {
		case model.FilterInclude, model.FilterIncludeRe:
			hasIncludes = true
			if matchesFilter(item, f) {
				anyIncludeMatched = true
			}
		case model.FilterExclude, model.FilterExcludeRe:
			if matchesFilter(item, f) {
				return false
			}
		}
	}

	if hasIncludes && !anyIncludeMatched {
		return false
	}
	return true
}

// Apply returns the items that pass the given filters.
func Apply(items []model.Item, filters []model.Filter) []model.Item {
	var matched []model.Item
	for _, item := range items {
		if Match(item, filters) {
			matched = append(matched, item)
		}
	}
	return matched
}

func matchesFilter(item model.Item, f model.Filter) bool {
	text := textForScope(item, f.Scope)
	switch f.Kind {
	case model.FilterInclude, model.FilterExclude:
		return strings.Contains(text, strings.ToLower(f.Value))
	case model.FilterIncludeRe, model.FilterExcludeRe:
		re, err := regexp.Compile("(?i)" + f.Value)
		if err != nil {
			return false
		}
		return re.MatchString(text)
	}
	return false
}

func textForScope(item model.Item, scope model.FilterScope) string {
	switch scope {
	case model.ScopeTitle:
		return strings.ToLower(item.Title)
	case model.ScopeContent:
		return strings.ToLower(item.Description)
	default:
		return strings.ToLower(item.Title + " " + item.Description)
	}
}
