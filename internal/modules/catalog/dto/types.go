package dto

type LoginInput struct {
	Username string
	Password string
}

type SessionOutput struct {
	UserID string
}

type ListItemsInput struct {
	Type string
}

type ListEpisodesInput struct {
	ShowID   string
	SeasonID string
}

type Item struct {
	ID            string
	Name          string
	Type          string
	SeriesID      string
	SeasonID      string
	Index         int
	DurationTicks int64
	PositionTicks int64
	Played        bool
	HasUserData   bool
}

type UserData struct {
	ItemID        string
	Name          string
	DurationTicks int64
	PositionTicks int64
	Played        bool
}
