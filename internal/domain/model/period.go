package model

// Period is a phase of the match.
type Period int

// Match periods in chronological order. PeriodUnknown marks incidents
// whose period was not recorded and must be inferred from the minute.
const (
	PeriodUnknown Period = iota
	PeriodFirst
	PeriodSecond
	PeriodExtra
	PeriodPenalties
)

// firstHalfLastMinute is the inference boundary for incidents that carry
// no explicit period.
const firstHalfLastMinute = 45

// PeriodFor infers a period from a minute: at or before minute 45 the
// first half, otherwise the second.
func PeriodFor(minute int) Period {
	if minute <= firstHalfLastMinute {
		return PeriodFirst
	}
	return PeriodSecond
}

// Effective returns p, falling back to minute-based inference when the
// period was never recorded. Downstream stages always see a concrete
// period.
func (p Period) Effective(minute int) Period {
	if p == PeriodUnknown {
		return PeriodFor(minute)
	}
	return p
}

// SecondOrLater reports whether p belongs to the "period 2+" timeline
// block: second half, extra time, or penalties.
func (p Period) SecondOrLater() bool {
	return p == PeriodSecond || p == PeriodExtra || p == PeriodPenalties
}

// String returns the wire representation of the period.
func (p Period) String() string {
	switch p {
	case PeriodFirst:
		return "1st"
	case PeriodSecond:
		return "2nd"
	case PeriodExtra:
		return "extra"
	case PeriodPenalties:
		return "penalties"
	default:
		return "unknown"
	}
}

// ParsePeriod converts a wire representation back to a Period. Unknown
// inputs map to PeriodUnknown so the minute-based fallback applies.
func ParsePeriod(s string) Period {
	switch s {
	case "1st":
		return PeriodFirst
	case "2nd":
		return PeriodSecond
	case "extra":
		return PeriodExtra
	case "penalties":
		return PeriodPenalties
	default:
		return PeriodUnknown
	}
}
