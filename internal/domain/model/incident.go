// Package model contains domain models passed between engine stages.
package model

// Kind identifies the type of a match incident. The kind determines which
// optional fields of an Incident are meaningful; absent fields are never
// required by downstream stages for other kinds.
type Kind string

// Incident kinds.
const (
	KindGoal         Kind = "goal"
	KindYellow       Kind = "yellow"
	KindRed          Kind = "red"
	KindDoubleYellow Kind = "double-yellow"
	KindAssist       Kind = "assist"
	KindSubstitution Kind = "substitution"
)

// AssistDetail is an assist descriptor embedded in a legacy goal record.
// The normalizer expands these into standalone assist incidents.
type AssistDetail struct {
	ID         int
	PlayerID   *int
	PlayerName string
}

// Incident is a single match event. IDs are unique within a kind, not
// across kinds.
type Incident struct {
	Kind       Kind
	ID         int
	PlayerID   *int // primary subject: scorer, carded player, entering player
	PlayerName string
	TeamID     *int
	Minute     int
	Period     Period // PeriodUnknown means "infer from minute"

	// Goal-only fields.
	IsPenalty bool
	IsOwnGoal bool
	Assists   []AssistDetail // embedded descriptors on legacy goal records

	// Assist-only field: id of the credited goal.
	GoalID int

	// Substitution-only fields.
	PlayerOutID   *int
	PlayerOutName string
	PlayerInID    *int
	PlayerInName  string
}

// Key identifies an incident by kind and id, the unit of uniqueness.
type Key struct {
	Kind Kind
	ID   int
}

// Key returns the (kind, id) identity of the incident.
func (i Incident) Key() Key {
	return Key{Kind: i.Kind, ID: i.ID}
}

// SubKind tags a raw substitution record as a player entering or leaving
// the field.
type SubKind string

// Substitution record kinds.
const (
	SubEntry SubKind = "ENTRY"
	SubExit  SubKind = "EXIT"
)

// SubstitutionRecord is a raw, one-sided substitution event as supplied
// by the data layer. The aggregator folds ENTRY/EXIT pairs into a single
// substitution incident.
type SubstitutionRecord struct {
	ID         int
	Kind       SubKind
	PlayerID   int
	PlayerName string
	TeamID     *int // resolved via rosters when absent
	Minute     int
	Period     Period
}
