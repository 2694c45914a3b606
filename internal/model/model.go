// Package model defines the domain types used across the application.
package model

import "time"

// Item is one normalized entry from a parsed feed.
//
// PublishedAt is the zero time when the feed supplied no parsable date;
// merges sort such items after every dated item.
type Item struct {
	Title       string
	Link        string
	GUID        string
	Description string
	PublishedAt time.Time
}

// Usable reports whether the item carries enough identity to be processed.
// Items with neither a title nor a link are dropped at the fetch boundary.
func (it Item) Usable() bool {
	return it.Title != "" || it.Link != ""
}

// Deliverable reports whether the item can be formatted as a headline
// message. Both a title and a link are required.
func (it Item) Deliverable() bool {
	return it.Title != "" && it.Link != ""
}

// FilterKind defines the type of filter rule.
type FilterKind string

// Supported filter kinds.
const (
	FilterInclude   FilterKind = "include"
	FilterExclude   FilterKind = "exclude"
	FilterIncludeRe FilterKind = "include_re"
	FilterExcludeRe FilterKind = "exclude_re"
)

// FilterScope defines which part of an item a filter matches against.
type FilterScope string

// Supported filter scopes.
const (
	ScopeTitle   FilterScope = "title"
	ScopeContent FilterScope = "content"
	ScopeAll     FilterScope = "all"
)

// Filter is a single matching rule applied to feed items.
type Filter struct {
	Kind  FilterKind
	Scope FilterScope
	Value string
}
