package nfl

import "strings"

// Source identifies a league-wide news source selectable on /nfl.
type Source string

// Selectable sources. SourceAll is the default feed mix.
const (
	SourceESPN     Source = "espn"
	SourceCBS      Source = "cbs"
	SourceRotoWire Source = "rotowire"
	SourceAll      Source = "all"
)

const (
	espnFeed     = "https://www.espn.com/espn/rss/nfl/news"
	cbsFeed      = "https://www.cbssports.com/rss/headlines/nfl/"
	rotowireFeed = "https://www.rotowire.com/rss/news.php?sport=NFL"
	pftFeed      = "https://profootballtalk.nbcsports.com/feed/"
)

// ParseSource resolves a source name from user input.
func ParseSource(s string) (Source, bool) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceESPN:
		return SourceESPN, true
	case SourceCBS:
		return SourceCBS, true
	case SourceRotoWire:
		return SourceRotoWire, true
	case SourceAll:
		return SourceAll, true
	}
	return "", false
}

// SourceFeeds returns the feed URLs behind a source selection.
func SourceFeeds(s Source) []string {
	switch s {
	case SourceESPN:
		return []string{espnFeed}
	case SourceCBS:
		return []string{cbsFeed}
	case SourceRotoWire:
		return []string{rotowireFeed}
	default:
		return []string{espnFeed, cbsFeed, rotowireFeed, pftFeed}
	}
}

// FantasyFeeds returns the feeds behind /fantasynews.
func FantasyFeeds() []string {
	return []string{rotowireFeed}
}

// SourceLabel maps a feed URL to a short attribution label for messages.
func SourceLabel(feedURL string) string {
	switch {
	case strings.Contains(feedURL, "espn.com"):
		return "ESPN"
	case strings.Contains(feedURL, "cbssports.com"):
		return "CBS Sports"
	case strings.Contains(feedURL, "rotowire.com"):
		return "RotoWire"
	case strings.Contains(feedURL, "nbcsports.com"):
		return "ProFootballTalk"
	default:
		return "Source"
	}
}
