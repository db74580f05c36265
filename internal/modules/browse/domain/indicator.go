package domain

type Status struct {
	Watched bool
	Partial bool
}

// OwnStatus derives an entry's immediate flags from its playback data.
func OwnStatus(played bool, positionTicks int64) Status {
	return Status{Watched: played, Partial: !played && positionTicks > 0}
}

func (s Status) Any() bool { return s.Watched || s.Partial }

type Indicator int

const (
	IndicatorNone Indicator = iota
	IndicatorPartial
	IndicatorWatched
)

func (i Indicator) String() string {
	switch i {
	case IndicatorWatched:
		return "watched"
	case IndicatorPartial:
		return "partial"
	default:
		return ""
	}
}

// ResolveIndicator picks watched over partial over nothing. The entry's own
// flags win over the aggregate.
func ResolveIndicator(own, aggregate Status) Indicator {
	switch {
	case own.Watched:
		return IndicatorWatched
	case own.Partial:
		return IndicatorPartial
	case aggregate.Watched:
		return IndicatorWatched
	case aggregate.Partial:
		return IndicatorPartial
	default:
		return IndicatorNone
	}
}
