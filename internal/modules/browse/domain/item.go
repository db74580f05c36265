package domain

import "fmt"

// Item is the catalog record a browse entry is built from.
type Item struct {
	ID            string
	Name          string
	Type          string
	SeriesID      string
	Index         int
	Played        bool
	PositionTicks int64
	HasUserData   bool
}

func (i Item) Entry() Entry {
	label := i.Name
	if i.Type == "Episode" && i.Index > 0 {
		label = fmt.Sprintf("%d. %s", i.Index, i.Name)
	}
	e := Entry{ID: i.ID, Label: label, Type: i.Type, SeriesID: i.SeriesID}
	if i.HasUserData {
		e.Own = OwnStatus(i.Played, i.PositionTicks)
	}
	return e
}
