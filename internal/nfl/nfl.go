// Package nfl holds the static directory of teams, feeds, and league-wide
// news sources.
package nfl

import (
	"sort"
	"strings"
)

// Team codes and display labels.
var teamLabels = map[string]string{
	"ARI": "Arizona Cardinals", "ATL": "Atlanta Falcons", "BAL": "Baltimore Ravens", "BUF": "Buffalo Bills",
	"CAR": "Carolina Panthers", "CHI": "Chicago Bears", "CIN": "Cincinnati Bengals", "CLE": "Cleveland Browns",
	"DAL": "Dallas Cowboys", "DEN": "Denver Broncos", "DET": "Detroit Lions", "GB": "Green Bay Packers",
	"HOU": "Houston Texans", "IND": "Indianapolis Colts", "JAX": "Jacksonville Jaguars", "KC": "Kansas City Chiefs",
	"LAC": "Los Angeles Chargers", "LAR": "Los Angeles Rams", "LV": "Las Vegas Raiders", "MIA": "Miami Dolphins",
	"MIN": "Minnesota Vikings", "NE": "New England Patriots", "NO": "New Orleans Saints", "NYG": "New York Giants",
	"NYJ": "New York Jets", "PHI": "Philadelphia Eagles", "PIT": "Pittsburgh Steelers", "SEA": "Seattle Seahawks",
	"SF": "San Francisco 49ers", "TB": "Tampa Bay Buccaneers", "TEN": "Tennessee Titans", "WAS": "Washington Commanders",
}

// SB Nation team blogs expose RSS at /rss/index.xml. The 49ers and Packers
// additionally have official feeds.
var teamFeeds = map[string][]string{
	"ARI": {"https://www.revengeofthebirds.com/rss/index.xml"},
	"ATL": {"https://www.thefalcoholic.com/rss/index.xml"},
	"BAL": {"https://www.baltimorebeatdown.com/rss/index.xml"},
	"BUF": {"https://www.buffalorumblings.com/rss/index.xml"},
	"CAR": {"https://www.catscratchreader.com/rss/index.xml"},
	"CHI": {"https://www.windycitygridiron.com/rss/index.xml"},
	"CIN": {"https://www.cincyjungle.com/rss/index.xml"},
	"CLE": {"https://www.dawgsbynature.com/rss/index.xml"},
	"DAL": {"https://www.bloggingtheboys.com/rss/index.xml"},
	"DEN": {"https://www.milehighreport.com/rss/index.xml"},
	"DET": {"https://www.prideofdetroit.com/rss/index.xml"},
	"GB":  {"https://www.acmepackingcompany.com/rss/index.xml", "https://www.packers.com/rss/news"},
	"HOU": {"https://www.battleredblog.com/rss/index.xml"},
	"IND": {"https://www.stampedeblue.com/rss/index.xml"},
	"JAX": {"https://www.bigcatcountry.com/rss/index.xml"},
	"KC":  {"https://www.arrowheadpride.com/rss/index.xml"},
	"LAC": {"https://www.boltsfromtheblue.com/rss/index.xml"},
	"LAR": {"https://www.turfshowtimes.com/rss/index.xml"},
	"LV":  {"https://www.silverandblackpride.com/rss/index.xml"},
	"MIA": {"https://www.thephinsider.com/rss/index.xml"},
	"MIN": {"https://www.dailynorseman.com/rss/index.xml"},
	"NE":  {"https://www.patspulpit.com/rss/index.xml"},
	"NO":  {"https://www.canalstreetchronicles.com/rss/index.xml"},
	"NYG": {"https://www.bigblueview.com/rss/index.xml"},
	"NYJ": {"https://www.ganggreennation.com/rss/index.xml"},
	"PHI": {"https://www.bleedinggreennation.com/rss/index.xml"},
	"PIT": {"https://www.behindthesteelcurtain.com/rss/index.xml"},
	"SEA": {"https://www.fieldgulls.com/rss/index.xml"},
	"SF":  {"https://www.ninersnation.com/rss/index.xml", "https://www.49ers.com/rss/news"},
	"TB":  {"https://www.bucsnation.com/rss/index.xml"},
	"TEN": {"https://www.musiccitymiracles.com/rss/index.xml"},
	"WAS": {"https://www.hogshaven.com/rss/index.xml"},
}

// Team is one entry of the team directory.
type Team struct {
	Code  string
	Label string
	Feeds []string
}

// LookupTeam resolves a team code (case-insensitive) to its directory entry.
func LookupTeam(code string) (Team, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	label, ok := teamLabels[c]
	if !ok {
		return Team{}, false
	}
	return Team{Code: c, Label: label, Feeds: teamFeeds[c]}, true
}

// SearchTeams returns up to limit teams whose code or label contains the
// query (case-insensitive). An empty query matches every team. Results are
// ordered by code for determinism.
func SearchTeams(query string, limit int) []Team {
	q := strings.ToLower(strings.TrimSpace(query))

	codes := make([]string, 0, len(teamLabels))
	for code := range teamLabels {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var out []Team
	for _, code := range codes {
		label := teamLabels[code]
		if q != "" &&
			!strings.Contains(strings.ToLower(code), q) &&
			!strings.Contains(strings.ToLower(label), q) {
			continue
		}
		out = append(out, Team{Code: code, Label: label, Feeds: teamFeeds[code]})
		if len(out) >= limit {
			break
		}
	}
	return out
}
