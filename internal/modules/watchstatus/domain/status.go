// Package domain holds the watched/partial rollup of a show's episodes.
package domain

type EpisodeStatus struct {
	SeasonID      string
	Played        bool
	PositionTicks int64
}

func (e EpisodeStatus) inProgress() bool { return !e.Played && e.PositionTicks > 0 }
func (e EpisodeStatus) untouched() bool  { return !e.Played && e.PositionTicks <= 0 }

type AggregateStatus struct {
	Watched bool
	Partial bool
}

type ShowStatus struct {
	Show    AggregateStatus
	Seasons map[string]AggregateStatus
}

// Season returns the rollup for seasonID, or the zero status when the season
// was never seen among the show's episodes.
func (s ShowStatus) Season(seasonID string) AggregateStatus {
	return s.Seasons[seasonID]
}

type tally struct {
	watched    bool
	unwatched  bool
	inProgress bool
}

func (t *tally) add(e EpisodeStatus) {
	if e.untouched() {
		t.unwatched = true
		return
	}
	t.watched = true
	if e.inProgress() {
		t.inProgress = true
	}
}

func (t tally) status() AggregateStatus {
	return AggregateStatus{
		Watched: t.watched && !t.unwatched,
		Partial: (t.watched && t.unwatched) || t.inProgress,
	}
}

// Aggregate rolls episodes up into a show status and one status per season.
// A started but unfinished episode counts as watched for the watched/unwatched
// split and also marks its show and season partial on its own.
func Aggregate(episodes []EpisodeStatus) ShowStatus {
	var show tally
	seasons := map[string]*tally{}
	for _, e := range episodes {
		show.add(e)
		if e.SeasonID == "" {
			continue
		}
		t, ok := seasons[e.SeasonID]
		if !ok {
			t = &tally{}
			seasons[e.SeasonID] = t
		}
		t.add(e)
	}
	out := ShowStatus{Show: show.status(), Seasons: make(map[string]AggregateStatus, len(seasons))}
	for id, t := range seasons {
		out.Seasons[id] = t.status()
	}
	return out
}
