package model

// Status is the lifecycle state of a match. It only affects which
// "ended" separators the timeline shows.
//
// The happy path is programmed -> first-half -> half-time -> second-half
// -> terminated/finished. Suspensions and postponements are out-of-band
// states that suppress every "ended" separator.
type Status string

// Match statuses.
const (
	StatusProgrammed Status = "programmed"
	StatusFirstHalf  Status = "first-half"
	StatusHalfTime   Status = "half-time"
	StatusSecondHalf Status = "second-half"
	StatusTerminated Status = "terminated"
	StatusFinished   Status = "finished"
	StatusSuspended  Status = "suspended"
	StatusPostponed  Status = "postponed"
)

// Known reports whether s is one of the recognized statuses.
func (s Status) Known() bool {
	switch s {
	case StatusProgrammed, StatusFirstHalf, StatusHalfTime, StatusSecondHalf,
		StatusTerminated, StatusFinished, StatusSuspended, StatusPostponed:
		return true
	default:
		return false
	}
}

// MatchEnded reports whether the match reached a terminal state.
func (s Status) MatchEnded() bool {
	return s == StatusTerminated || s == StatusFinished
}

// SecondHalfEnded reports whether play has progressed past the second
// half.
func (s Status) SecondHalfEnded() bool {
	return s.MatchEnded()
}

// FirstHalfEnded reports whether play has progressed past the first
// half.
func (s Status) FirstHalfEnded() bool {
	switch s {
	case StatusHalfTime, StatusSecondHalf, StatusTerminated, StatusFinished:
		return true
	default:
		return false
	}
}
