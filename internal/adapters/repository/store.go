// Package repository defines the computed-timeline store interface and
// errors.
package repository

import (
	"context"
	"time"

	model "github.com/okian/matchline/internal/domain/model"
	timeline "github.com/okian/matchline/internal/domain/timeline"
)

// Computed is the engine output for one match: the ordered timeline and
// the projected rosters, tagged with the snapshot that produced them.
type Computed struct {
	MatchID    string
	SnapshotID string
	BuiltAt    time.Time
	Entries    []timeline.Entry
	Home       []model.Player
	Away       []model.Player
}

// Store provides read/write access to computed match timelines.
type Store interface {
	// Put stores the computed result for its match, replacing any
	// previous one.
	Put(ctx context.Context, c Computed) error

	// Get returns the latest computed result for a match.
	// Returns ErrNotFound when the match is unknown.
	Get(ctx context.Context, matchID string) (Computed, error)

	// Count returns the number of matches tracked.
	Count(ctx context.Context) int

	// Matches returns the tracked match ids in lexical order.
	Matches(ctx context.Context) []string
}
