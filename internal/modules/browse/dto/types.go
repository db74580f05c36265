package dto

type Entry struct {
	ID        string
	Label     string
	Type      string
	Indicator string
	Resolved  bool
}

type View struct {
	Title     string
	Kind      string
	Depth     int
	Entries   []Entry
	Cursor    int
	Filter    string
	State     string
	CanEscape bool
	Leaf      bool
}

type MoveOutput struct {
	View    View
	Changed []int
}

const (
	ActionNone = "none"
	ActionOpen = "open"
	ActionPlay = "play"
)

type ConfirmOutput struct {
	Action string
	Entry  Entry
	View   View
}
