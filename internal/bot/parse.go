package bot

import (
	"strconv"
	"strings"

	"nfl_bot/internal/nfl"
)

// Result count bounds for on-demand queries.
const (
	minCount     = 1
	maxCount     = 5
	defaultCount = 3
)

// ClampCount bounds a requested result count to the 1-5 range.
func ClampCount(n int) int {
	if n < minCount {
		return minCount
	}
	if n > maxCount {
		return maxCount
	}
	return n
}

// ParseCountArg extracts a result count from command arguments. The first
// integer field wins; anything else falls back to the default.
func ParseCountArg(args string) int {
	for _, field := range strings.Fields(args) {
		if n, err := strconv.Atoi(field); err == nil {
			return ClampCount(n)
		}
	}
	return defaultCount
}

// ParseHeadlinesArgs parses /nfl arguments: an optional count and an
// optional source name, in either order.
func ParseHeadlinesArgs(args string) (int, nfl.Source) {
	count := defaultCount
	source := nfl.SourceAll
	for _, field := range strings.Fields(args) {
		if n, err := strconv.Atoi(field); err == nil {
			count = ClampCount(n)
			continue
		}
		if s, ok := nfl.ParseSource(field); ok {
			source = s
		}
	}
	return count, source
}

// ParseTeamArgs parses /team arguments: a team query (name or code,
// possibly multiple words) with an optional trailing count.
func ParseTeamArgs(args string) (string, int) {
	fields := strings.Fields(args)
	count := defaultCount

	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
			count = ClampCount(n)
			fields = fields[:len(fields)-1]
		}
	}
	return strings.Join(fields, " "), count
}
