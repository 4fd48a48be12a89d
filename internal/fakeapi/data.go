package fakeapi

import (
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kickstats/kickstats/pkg/domain"
)

type club struct {
	domain.Team
	elo float64
}

type fixture struct {
	id         int
	home, away *club
	league     string // competition name
	date       time.Time
	kickoff    string
	played     bool
	homeGoals  int
	awayGoals  int
}

func (f *fixture) match() domain.Match {
	m := domain.Match{
		ID:       f.id,
		HomeTeam: f.home.ShortName,
		AwayTeam: f.away.ShortName,
		Date:     f.date.Format(time.DateOnly),
		Time:     f.kickoff,
		League:   f.league,
		Status:   "upcoming",
	}
	if f.played {
		hg, ag := f.homeGoals, f.awayGoals
		m.HomeScore, m.AwayScore = &hg, &ag
		m.Status = "finished"
	}
	return m
}

// outcome renders a result the way predictions are labelled.
func (f *fixture) outcome() string {
	switch {
	case f.homeGoals > f.awayGoals:
		return f.home.ShortName + " Win"
	case f.homeGoals < f.awayGoals:
		return f.away.ShortName + " Win"
	default:
		return "Draw"
	}
}

type clubSeed struct {
	id      int
	name    string
	short   string
	founded int
	venue   string
	elo     float64
}

var seeds = map[string][]clubSeed{
	"Premier League": {
		{57, "Arsenal FC", "Arsenal", 1886, "Emirates Stadium", 1890},
		{64, "Liverpool FC", "Liverpool", 1892, "Anfield", 1900},
		{65, "Manchester City FC", "Man City", 1880, "Etihad Stadium", 1880},
		{61, "Chelsea FC", "Chelsea", 1905, "Stamford Bridge", 1820},
		{73, "Tottenham Hotspur FC", "Tottenham", 1882, "Tottenham Hotspur Stadium", 1780},
		{66, "Manchester United FC", "Man United", 1878, "Old Trafford", 1790},
	},
	"La Liga": {
		{86, "Real Madrid CF", "Real Madrid", 1902, "Estadio Santiago Bernabéu", 1960},
		{81, "FC Barcelona", "Barcelona", 1899, "Spotify Camp Nou", 1930},
		{78, "Club Atlético de Madrid", "Atletico Madrid", 1903, "Riyadh Air Metropolitano", 1850},
		{92, "Real Sociedad de Fútbol", "Sociedad", 1909, "Reale Arena", 1730},
		{90, "Real Betis Balompié", "Betis", 1907, "Estadio Benito Villamarín", 1720},
		{95, "Valencia CF", "Valencia", 1919, "Estadio de Mestalla", 1700},
	},
	"Bundesliga": {
		{5, "FC Bayern München", "Bayern Munich", 1900, "Allianz Arena", 1950},
		{3, "Bayer 04 Leverkusen", "Leverkusen", 1904, "BayArena", 1860},
		{4, "Borussia Dortmund", "Dortmund", 1909, "Signal Iduna Park", 1830},
		{721, "RB Leipzig", "RB Leipzig", 2009, "Red Bull Arena", 1800},
		{19, "Eintracht Frankfurt", "Ein Frankfurt", 1899, "Deutsche Bank Park", 1740},
		{11, "VfL Wolfsburg", "Wolfsburg", 1945, "Volkswagen Arena", 1680},
	},
	"Serie A": {
		{108, "FC Internazionale Milano", "Inter", 1908, "Stadio Giuseppe Meazza", 1900},
		{113, "SSC Napoli", "Napoli", 1926, "Stadio Diego Armando Maradona", 1840},
		{109, "Juventus FC", "Juventus", 1897, "Allianz Stadium", 1820},
		{98, "AC Milan", "Milan", 1899, "Stadio Giuseppe Meazza", 1810},
		{102, "Atalanta BC", "Atalanta", 1907, "Gewiss Stadium", 1790},
		{100, "AS Roma", "Roma", 1927, "Stadio Olimpico", 1770},
	},
	"Ligue 1": {
		{524, "Paris Saint-Germain FC", "Paris SG", 1970, "Parc des Princes", 1920},
		{548, "AS Monaco FC", "Monaco", 1924, "Stade Louis II", 1770},
		{516, "Olympique de Marseille", "Marseille", 1899, "Orange Vélodrome", 1760},
		{521, "Lille OSC", "Lille", 1944, "Decathlon Arena", 1750},
		{523, "Olympique Lyonnais", "Lyon", 1950, "Groupama Stadium", 1730},
		{522, "OGC Nice", "Nice", 1904, "Allianz Riviera", 1700},
	},
}

var countries = map[string]string{
	"Premier League": "England",
	"La Liga":        "Spain",
	"Bundesliga":     "Germany",
	"Serie A":        "Italy",
	"Ligue 1":        "France",
}

var championsLeagueGroups = map[string][]string{
	"GROUP_A": {"Man City", "Real Madrid", "Dortmund", "Napoli"},
	"GROUP_B": {"Bayern Munich", "Arsenal", "Juventus", "Monaco"},
	"GROUP_C": {"Paris SG", "Barcelona", "Liverpool", "Leverkusen"},
	"GROUP_D": {"Inter", "Atletico Madrid", "Chelsea", "Milan"},
}

const playedRounds = 7

var (
	currentSeasonStart  = time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)
	previousSeasonStart = time.Date(2025, time.September, 6, 0, 0, 0, 0, time.UTC)
	groupStageStart     = time.Date(2026, time.September, 16, 0, 0, 0, 0, time.UTC)
)

// dataset is the fake API's world: clubs, two seasons of league fixtures
// and a Champions League group stage. It is deterministic for a seed.
type dataset struct {
	clubs    []*club
	byLeague map[string][]*club
	byName   map[string]*club

	current  []*fixture
	previous []*fixture
	groups   map[string][]*fixture
}

func newDataset(seed uint64) *dataset {
	d := &dataset{
		byLeague: make(map[string][]*club),
		byName:   make(map[string]*club),
		groups:   make(map[string][]*fixture),
	}
	for _, league := range domain.DomesticLeagues {
		for _, s := range seeds[league] {
			c := &club{
				Team: domain.Team{
					ID:        s.id,
					Name:      s.name,
					ShortName: s.short,
					Crest:     "https://crests.football-data.org/" + strconv.Itoa(s.id) + ".png",
					League:    league,
					Country:   countries[league],
					Founded:   s.founded,
					Venue:     s.venue,
				},
				elo: s.elo,
			}
			d.clubs = append(d.clubs, c)
			d.byLeague[league] = append(d.byLeague[league], c)
			d.byName[strings.ToLower(s.short)] = c
		}
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	nextID := 1
	for _, league := range domain.DomesticLeagues {
		prev := fullSeason(d.byLeague[league])
		for i, round := range prev {
			for _, m := range round {
				f := d.newFixture(&nextID, m, league, previousSeasonStart.AddDate(0, 0, 7*i))
				play(rng, f)
				d.previous = append(d.previous, f)
			}
		}
		cur := fullSeason(d.byLeague[league])
		for i, round := range cur {
			for _, m := range round {
				f := d.newFixture(&nextID, m, league, currentSeasonStart.AddDate(0, 0, 7*i))
				if i < playedRounds {
					play(rng, f)
				}
				d.current = append(d.current, f)
			}
		}
	}

	groupNames := make([]string, 0, len(championsLeagueGroups))
	for g := range championsLeagueGroups {
		groupNames = append(groupNames, g)
	}
	sort.Strings(groupNames)
	for _, g := range groupNames {
		var members []*club
		for _, name := range championsLeagueGroups[g] {
			members = append(members, d.byName[strings.ToLower(name)])
		}
		for i, round := range fullSeason(members) {
			for _, m := range round {
				f := d.newFixture(&nextID, m, "Champions League", groupStageStart.AddDate(0, 0, 14*i))
				play(rng, f)
				d.groups[g] = append(d.groups[g], f)
			}
		}
	}
	return d
}

func (d *dataset) newFixture(nextID *int, m pairing, league string, date time.Time) *fixture {
	f := &fixture{id: *nextID, home: m.home, away: m.away, league: league, date: date, kickoff: "15:00"}
	if f.id%3 == 0 {
		f.kickoff = "17:30"
	}
	*nextID++
	return f
}

// lookup finds a club by short name, ignoring case.
func (d *dataset) lookup(name string) *club {
	return d.byName[strings.ToLower(strings.TrimSpace(name))]
}

func (d *dataset) predictionTeams() []string {
	names := make([]string, 0, len(d.clubs))
	for _, c := range d.clubs {
		names = append(names, c.ShortName)
	}
	sort.Strings(names)
	return names
}

func (d *dataset) teams() []domain.Team {
	out := make([]domain.Team, 0, len(d.clubs))
	for _, c := range d.clubs {
		out = append(out, c.Team)
	}
	return out
}

// round returns the league fixtures of the given zero-based matchday.
func (d *dataset) round(i int) []domain.Match {
	date := currentSeasonStart.AddDate(0, 0, 7*i)
	var out []domain.Match
	for _, f := range d.current {
		if f.date.Equal(date) {
			out = append(out, f.match())
		}
	}
	return out
}

func (d *dataset) upcoming() []domain.Match { return d.round(playedRounds) }

func (d *dataset) recent() []domain.Match { return d.round(playedRounds - 1) }

// headToHead returns the last five meetings of two clubs, newest first,
// with results from home's perspective.
func (d *dataset) headToHead(home, away *club) []domain.H2HMatch {
	var meetings []*fixture
	for _, set := range [][]*fixture{d.current, d.previous} {
		for _, f := range set {
			if !f.played {
				continue
			}
			if (f.home == home && f.away == away) || (f.home == away && f.away == home) {
				meetings = append(meetings, f)
			}
		}
	}
	sort.SliceStable(meetings, func(i, j int) bool { return meetings[i].date.After(meetings[j].date) })
	if len(meetings) > 5 {
		meetings = meetings[:5]
	}

	out := make([]domain.H2HMatch, 0, len(meetings))
	for _, f := range meetings {
		scored, conceded := f.homeGoals, f.awayGoals
		if f.home != home {
			scored, conceded = f.awayGoals, f.homeGoals
		}
		result := "D"
		switch {
		case scored > conceded:
			result = "W"
		case scored < conceded:
			result = "L"
		}
		out = append(out, domain.H2HMatch{
			Date:      f.date.Format("02 Jan 2006"),
			HomeTeam:  f.home.ShortName,
			AwayTeam:  f.away.ShortName,
			HomeGoals: f.homeGoals,
			AwayGoals: f.awayGoals,
			Result:    result,
		})
	}
	return out
}

// settled returns the latest played result of home v away, if any.
func (d *dataset) settled(home, away string) *fixture {
	var last *fixture
	for _, f := range d.current {
		if f.played && strings.EqualFold(f.home.ShortName, home) && strings.EqualFold(f.away.ShortName, away) {
			if last == nil || f.date.After(last.date) {
				last = f
			}
		}
	}
	return last
}

func (d *dataset) standings(code string) (domain.Standings, bool) {
	league, ok := domain.LeagueByCode(code)
	if !ok {
		return domain.Standings{}, false
	}
	out := domain.Standings{League: league.Name}
	if code == "CL" {
		names := make([]string, 0, len(d.groups))
		for g := range d.groups {
			names = append(names, g)
		}
		sort.Strings(names)
		for _, g := range names {
			out.Groups = append(out.Groups, domain.StandingsGroup{Group: g, Table: table(d.groups[g])})
		}
		return out, true
	}
	var played []*fixture
	for _, f := range d.current {
		if f.league == league.Name {
			played = append(played, f)
		}
	}
	out.Standings = table(played)
	return out, true
}

// table ranks clubs by points, goal difference, goals scored, then name.
func table(fixtures []*fixture) []domain.StandingRow {
	rows := make(map[*club]*domain.StandingRow)
	var order []*club
	entry := func(c *club) *domain.StandingRow {
		r, ok := rows[c]
		if !ok {
			r = &domain.StandingRow{Team: c.ShortName, Crest: c.Crest}
			rows[c] = r
			order = append(order, c)
		}
		return r
	}

	for _, f := range fixtures {
		h, a := entry(f.home), entry(f.away)
		if !f.played {
			continue
		}
		h.Played++
		a.Played++
		h.GF += f.homeGoals
		h.GA += f.awayGoals
		a.GF += f.awayGoals
		a.GA += f.homeGoals
		switch {
		case f.homeGoals > f.awayGoals:
			h.Won++
			a.Lost++
			h.Points += 3
		case f.homeGoals < f.awayGoals:
			a.Won++
			h.Lost++
			a.Points += 3
		default:
			h.Drawn++
			a.Drawn++
			h.Points++
			a.Points++
		}
	}

	out := make([]domain.StandingRow, 0, len(order))
	for _, c := range order {
		r := rows[c]
		r.GD = r.GF - r.GA
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GD != b.GD {
			return a.GD > b.GD
		}
		if a.GF != b.GF {
			return a.GF > b.GF
		}
		return a.Team < b.Team
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

type pairing struct {
	home, away *club
}

// fullSeason is a double round robin: the second half mirrors the first
// with home and away swapped.
func fullSeason(clubs []*club) [][]pairing {
	first := roundRobin(clubs)
	second := make([][]pairing, len(first))
	for i, round := range first {
		swapped := make([]pairing, len(round))
		for j, p := range round {
			swapped[j] = pairing{home: p.away, away: p.home}
		}
		second[i] = swapped
	}
	return append(first, second...)
}

// roundRobin uses the circle method. Clubs must be even in number.
func roundRobin(clubs []*club) [][]pairing {
	ring := append([]*club(nil), clubs...)
	n := len(ring)
	rounds := make([][]pairing, n-1)
	for i := range n - 1 {
		round := make([]pairing, n/2)
		for j := range n / 2 {
			round[j] = pairing{home: ring[j], away: ring[n-1-j]}
		}
		rounds[i] = round

		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return rounds
}

// play samples a score from the clubs' expected goals.
func play(rng *rand.Rand, f *fixture) {
	lh, la := expectedGoals(f.home.elo, f.away.elo)
	f.homeGoals = samplePoisson(rng, lh)
	f.awayGoals = samplePoisson(rng, la)
	f.played = true
}

func samplePoisson(rng *rand.Rand, lambda float64) int {
	l := math.Exp(-lambda)
	p := 1.0
	k := 0
	for p > l {
		k++
		p *= rng.Float64()
	}
	return k - 1
}
