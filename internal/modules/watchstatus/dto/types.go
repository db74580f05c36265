package dto

type Status struct {
	Watched bool
	Partial bool
}

type ShowReport struct {
	ShowID  string
	Show    Status
	Seasons map[string]Status
}
