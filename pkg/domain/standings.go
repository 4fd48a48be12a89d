package domain

import "strings"

// StandingRow is one line of a league table.
type StandingRow struct {
	Position int    `json:"position"`
	Team     string `json:"team"`
	Crest    string `json:"crest,omitempty"`
	Played   int    `json:"played"`
	Won      int    `json:"won"`
	Drawn    int    `json:"drawn"`
	Lost     int    `json:"lost"`
	GF       int    `json:"gf"`
	GA       int    `json:"ga"`
	GD       int    `json:"gd"`
	Points   int    `json:"points"`
}

// StandingsGroup is a group table, used by group-stage competitions.
type StandingsGroup struct {
	Group string        `json:"group"`
	Table []StandingRow `json:"table"`
}

// Label turns "GROUP_A" into "Group A".
func (g StandingsGroup) Label() string {
	return strings.Replace(g.Group, "GROUP_", "Group ", 1)
}

// Standings is the response of the standings endpoint. Exactly one of
// Standings and Groups is populated.
type Standings struct {
	League    string           `json:"league"`
	Standings []StandingRow    `json:"standings"`
	Groups    []StandingsGroup `json:"groups"`
}

// Grouped reports whether the competition is presented as group tables.
func (s Standings) Grouped() bool {
	return len(s.Groups) > 0
}

// Zone is a qualification or relegation band of a league table.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneChampionsLeague
	ZoneEuropaLeague
	ZoneRelegation
)

// StandingZone returns the band for a position in a table of tableSize rows:
// top 4 Champions League, 5-6 Europa League, bottom 3 relegation.
func StandingZone(position, tableSize int) Zone {
	switch {
	case position <= 4:
		return ZoneChampionsLeague
	case position <= 6:
		return ZoneEuropaLeague
	case position >= tableSize-2:
		return ZoneRelegation
	default:
		return ZoneNone
	}
}
