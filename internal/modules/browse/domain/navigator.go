package domain

import "strings"

type FrameKind string

const (
	KindMediaTypes FrameKind = "media"
	KindShows      FrameKind = "shows"
	KindMovies     FrameKind = "movies"
	KindSeasons    FrameKind = "seasons"
	KindEpisodes   FrameKind = "episodes"
)

// Leaf frames list playable items.
func (k FrameKind) Leaf() bool {
	return k == KindEpisodes || k == KindMovies
}

type Entry struct {
	ID       string
	Label    string
	Type     string
	SeriesID string
	Own      Status

	Indicator Indicator
	Resolved  bool
}

type Frame struct {
	Title    string
	Kind     FrameKind
	ParentID string
	// SeriesID is set on episode frames, whose parent is a season.
	SeriesID      string
	Entries       []Entry
	Cursor        int
	EscapeEnabled bool

	filter  string
	visible []int
}

func (f *Frame) applyFilter(q string) {
	f.filter = q
	f.visible = f.visible[:0]
	needle := strings.ToLower(strings.TrimSpace(q))
	for i, e := range f.Entries {
		if needle == "" || strings.Contains(strings.ToLower(e.Label), needle) {
			f.visible = append(f.visible, i)
		}
	}
	f.Cursor = 0
}

func (f *Frame) Filter() string { return f.filter }

// Visible returns the entries that pass the filter, in order.
func (f *Frame) Visible() []Entry {
	out := make([]Entry, 0, len(f.visible))
	for _, i := range f.visible {
		out = append(out, f.Entries[i])
	}
	return out
}

func (f *Frame) selected() (Entry, bool) {
	if f.Cursor < 0 || f.Cursor >= len(f.visible) {
		return Entry{}, false
	}
	return f.Entries[f.visible[f.Cursor]], true
}

type State int

const (
	StateBrowsing State = iota
	StateSelected
	StateEscaped
	StateExiting
)

func (s State) String() string {
	switch s {
	case StateSelected:
		return "selected"
	case StateEscaped:
		return "escaped"
	case StateExiting:
		return "exiting"
	default:
		return "browsing"
	}
}

// Navigator is a stack of frames. Selected and Escaped are reported once by
// the transition that produced them; the next input returns to Browsing.
// Exiting is terminal.
type Navigator struct {
	stack []*Frame
	state State
}

func NewNavigator() *Navigator {
	return &Navigator{}
}

func (n *Navigator) State() State { return n.state }
func (n *Navigator) Depth() int   { return len(n.stack) }

func (n *Navigator) Current() (*Frame, bool) {
	if len(n.stack) == 0 {
		return nil, false
	}
	return n.stack[len(n.stack)-1], true
}

// Push makes f the current frame.
func (n *Navigator) Push(f Frame) {
	if n.state == StateExiting {
		return
	}
	frame := f
	frame.Entries = append([]Entry(nil), f.Entries...)
	frame.visible = nil
	frame.applyFilter("")
	n.stack = append(n.stack, &frame)
	n.state = StateBrowsing
}

func (n *Navigator) active() (*Frame, bool) {
	if n.state == StateExiting {
		return nil, false
	}
	n.state = StateBrowsing
	return n.Current()
}

// Move shifts the cursor by delta within the visible entries without
// wrapping. It returns the visible rows that changed, or nil.
func (n *Navigator) Move(delta int) []int {
	f, ok := n.active()
	if !ok || len(f.visible) == 0 {
		return nil
	}
	next := f.Cursor + delta
	if next < 0 {
		next = 0
	}
	if next > len(f.visible)-1 {
		next = len(f.visible) - 1
	}
	if next == f.Cursor {
		return nil
	}
	prev := f.Cursor
	f.Cursor = next
	return []int{prev, next}
}

// Confirm yields the entry under the cursor.
func (n *Navigator) Confirm() (Entry, bool) {
	f, ok := n.active()
	if !ok {
		return Entry{}, false
	}
	e, ok := f.selected()
	if !ok {
		return Entry{}, false
	}
	n.state = StateSelected
	return e, true
}

// Escape pops the current frame when it was pushed with escape enabled. On a
// frame without a parent it does nothing and the navigator stays Browsing.
func (n *Navigator) Escape() bool {
	f, ok := n.active()
	if !ok || !f.EscapeEnabled || len(n.stack) < 2 {
		return false
	}
	n.stack = n.stack[:len(n.stack)-1]
	n.state = StateEscaped
	return true
}

func (n *Navigator) Cancel() {
	n.state = StateExiting
}

// SetFilter narrows the current frame and resets its cursor.
func (n *Navigator) SetFilter(q string) {
	f, ok := n.active()
	if !ok {
		return
	}
	f.applyFilter(q)
}

// ReplaceEntries swaps the current frame's entries, keeping the cursor on the
// same entry id when it still exists.
func (n *Navigator) ReplaceEntries(entries []Entry) {
	f, ok := n.active()
	if !ok {
		return
	}
	var keep string
	if e, ok := f.selected(); ok {
		keep = e.ID
	}
	f.Entries = append([]Entry(nil), entries...)
	f.applyFilter(f.filter)
	for row, i := range f.visible {
		if f.Entries[i].ID == keep {
			f.Cursor = row
			break
		}
	}
}

// SetIndicator records a resolved indicator on every frame holding id.
func (n *Navigator) SetIndicator(id string, ind Indicator) {
	for _, f := range n.stack {
		for i := range f.Entries {
			if f.Entries[i].ID == id {
				f.Entries[i].Indicator = ind
				f.Entries[i].Resolved = true
			}
		}
	}
}
