package testfeed

import "time"

// Config holds configuration for the feed test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumMatches  int           // Number of matches to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for snapshots
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
	ResendRatio int           // Percent of snapshots resent to exercise dedupe
}

// Snapshot mirrors the POST /snapshots wire schema.
type Snapshot struct {
	SnapshotID    string         `json:"snapshot_id"`
	MatchID       string         `json:"match_id"`
	Status        string         `json:"status"`
	Incidents     []Incident     `json:"incidents,omitempty"`
	Substitutions []Substitution `json:"substitutions,omitempty"`
	Home          []Player       `json:"home,omitempty"`
	Away          []Player       `json:"away,omitempty"`
}

// Incident mirrors one raw incident on the wire.
type Incident struct {
	Kind       string   `json:"kind"`
	ID         int      `json:"id"`
	PlayerID   *int     `json:"player_id,omitempty"`
	PlayerName string   `json:"player_name,omitempty"`
	TeamID     *int     `json:"team_id,omitempty"`
	Minute     int      `json:"minute"`
	Period     string   `json:"period,omitempty"`
	IsPenalty  bool     `json:"penalty,omitempty"`
	IsOwnGoal  bool     `json:"own_goal,omitempty"`
	Assists    []Assist `json:"assists,omitempty"`
	GoalID     int      `json:"goal_id,omitempty"`
}

// Assist mirrors an embedded assist descriptor.
type Assist struct {
	ID         int    `json:"id"`
	PlayerID   *int   `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
}

// Substitution mirrors one raw substitution record.
type Substitution struct {
	ID         int    `json:"id,omitempty"`
	Kind       string `json:"kind"`
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
	TeamID     *int   `json:"team_id,omitempty"`
	Minute     int    `json:"minute"`
	Period     string `json:"period,omitempty"`
}

// Player mirrors a roster entry.
type Player struct {
	ID      int    `json:"id"`
	TeamID  int    `json:"team_id"`
	Name    string `json:"name,omitempty"`
	Number  int    `json:"number,omitempty"`
	OnField bool   `json:"on_field"`
}

// TimelineEntry mirrors one entry of the GET /timeline response.
type TimelineEntry struct {
	Type     string    `json:"type"`
	Period   string    `json:"period,omitempty"`
	Ended    bool      `json:"ended,omitempty"`
	MatchEnd bool      `json:"match_end,omitempty"`
	Incident *Incident `json:"incident,omitempty"`
	Assist   *Incident `json:"assist,omitempty"`
}

// TimelineResponse mirrors the GET /timeline response.
type TimelineResponse struct {
	MatchID string          `json:"match_id"`
	Entries []TimelineEntry `json:"entries"`
}

// AckResponse represents the response from snapshot submission
type AckResponse struct {
	Status     string `json:"status"`
	SnapshotID string `json:"snapshot_id"`
	Duplicate  bool   `json:"duplicate"`
}

// Stats holds test statistics
type Stats struct {
	SnapshotsGenerated  int
	SnapshotsSubmitted  int
	SnapshotsSuccessful int
	SnapshotsDuplicate  int
	SnapshotsFailed     int
	TimelinesRetrieved  int
	TimelinesVerified   int
	OrderingViolations  int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
