package bot

import (
	"testing"

	"nfl_bot/internal/nfl"
)

func TestClampCount(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{5, 5},
		{6, 5},
		{100, 5},
	}
	for _, tt := range tests {
		if got := ClampCount(tt.in); got != tt.want {
			t.Errorf("ClampCount(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseCountArg(t *testing.T) {
	tests := []struct {
		name string
		args string
		want int
	}{
		{"empty", "", 3},
		{"plain number", "2", 2},
		{"clamped high", "99", 5},
		{"clamped low", "-1", 1},
		{"number among words", "latest 4 please", 4},
		{"no number", "latest please", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCountArg(tt.args); got != tt.want {
				t.Errorf("ParseCountArg(%q) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseHeadlinesArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       string
		wantCount  int
		wantSource nfl.Source
	}{
		{"empty defaults", "", 3, nfl.SourceAll},
		{"count only", "2", 2, nfl.SourceAll},
		{"source only", "espn", 3, nfl.SourceESPN},
		{"count then source", "4 cbs", 4, nfl.SourceCBS},
		{"source then count", "rotowire 1", 1, nfl.SourceRotoWire},
		{"unknown source ignored", "2 bbc", 2, nfl.SourceAll},
		{"count clamped", "50 espn", 5, nfl.SourceESPN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, source := ParseHeadlinesArgs(tt.args)
			if count != tt.wantCount || source != tt.wantSource {
				t.Errorf("ParseHeadlinesArgs(%q) = (%d, %q), want (%d, %q)",
					tt.args, count, source, tt.wantCount, tt.wantSource)
			}
		})
	}
}

func TestParseTeamArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      string
		wantQuery string
		wantCount int
	}{
		{"empty", "", "", 3},
		{"code only", "det", "det", 3},
		{"name with count", "lions 2", "lions", 2},
		{"multi-word name", "kansas city chiefs", "kansas city chiefs", 3},
		{"multi-word with count", "kansas city 4", "kansas city", 4},
		{"lone number is the query", "49ers", "49ers", 3},
		{"count clamped", "det 99", "det", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, count := ParseTeamArgs(tt.args)
			if query != tt.wantQuery || count != tt.wantCount {
				t.Errorf("ParseTeamArgs(%q) = (%q, %d), want (%q, %d)",
					tt.args, query, count, tt.wantQuery, tt.wantCount)
			}
		})
	}
}
