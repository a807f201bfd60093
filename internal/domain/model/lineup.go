package model

// Player is a roster entry with its derived on-field state. MinuteIn and
// MinuteOut are nil until a substitution is recorded for the player.
type Player struct {
	ID        int
	TeamID    int
	Name      string
	Number    int
	OnField   bool
	MinuteIn  *int
	MinuteOut *int
}

// Snapshot is the full input unit of the engine: every raw incident and
// substitution record for a match plus the two rosters and the match
// status. The engine recomputes everything from a snapshot each time;
// nothing persists between invocations.
type Snapshot struct {
	SnapshotID    string
	MatchID       string
	Status        Status
	Incidents     []Incident
	Substitutions []SubstitutionRecord
	Home          []Player
	Away          []Player
}
