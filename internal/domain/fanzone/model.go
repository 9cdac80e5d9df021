package fanzone

import "sort"

// Winner outcomes an admin can declare for a fixture. WinnerClear
// withdraws a previous declaration.
const (
	WinnerHome  = "home"
	WinnerAway  = "away"
	WinnerDraw  = "draw"
	WinnerClear = "clear"
)

// ValidWinner reports whether s is an accepted declaration value.
func ValidWinner(s string) bool {
	switch s {
	case WinnerHome, WinnerAway, WinnerDraw, WinnerClear:
		return true
	}
	return false
}

// FixtureVotes maps user ids to the side they voted for.
type FixtureVotes map[string]string

// Counts tallies the votes per side.
func (v FixtureVotes) Counts() (home, away, draw int) {
	for _, side := range v {
		switch side {
		case WinnerHome:
			home++
		case WinnerAway:
			away++
		case WinnerDraw:
			draw++
		}
	}
	return home, away, draw
}

// Voters returns the user ids that voted, sorted for deterministic fan-out.
func (v FixtureVotes) Voters() []string {
	ids := make([]string, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Votes is the fan-vote document, keyed by fixture name.
type Votes struct {
	Fixtures map[string]FixtureVotes `json:"fixtures"`
}

// Cast records or replaces a user's vote on a fixture.
func (v *Votes) Cast(fixture, userID, side string) {
	if v.Fixtures == nil {
		v.Fixtures = make(map[string]FixtureVotes)
	}
	if v.Fixtures[fixture] == nil {
		v.Fixtures[fixture] = make(FixtureVotes)
	}
	v.Fixtures[fixture][userID] = side
}

// Result is a declared fixture outcome with the vote counts frozen at
// declaration time.
type Result struct {
	Winner     string `json:"winner"`
	HomeVotes  int    `json:"home_votes"`
	AwayVotes  int    `json:"away_votes"`
	DrawVotes  int    `json:"draw_votes"`
	DeclaredTS int64  `json:"declared_ts"`
}

// Winners is the declared-results document, keyed by fixture name.
type Winners struct {
	Fixtures map[string]Result `json:"fixtures"`
}

// Set stores a result, allocating the map on first use.
func (w *Winners) Set(fixture string, result Result) {
	if w.Fixtures == nil {
		w.Fixtures = make(map[string]Result)
	}
	w.Fixtures[fixture] = result
}

// Clear removes a declared result.
func (w *Winners) Clear(fixture string) {
	delete(w.Fixtures, fixture)
}
