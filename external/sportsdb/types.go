package sportsdb

// eventsEnvelope mirrors the thesportsdb events response. All fields
// arrive as strings, including scores.
type eventsEnvelope struct {
	Events []eventItem `json:"events"`
}

type eventItem struct {
	IDEvent          string `json:"idEvent"`
	StrEvent         string `json:"strEvent"`
	StrLeague        string `json:"strLeague"`
	StrHomeTeam      string `json:"strHomeTeam"`
	StrAwayTeam      string `json:"strAwayTeam"`
	IntHomeScore     string `json:"intHomeScore"`
	IntAwayScore     string `json:"intAwayScore"`
	DateEvent        string `json:"dateEvent"`
	StrTime          string `json:"strTime"`
	StrTimestamp     string `json:"strTimestamp"`
	StrStatus        string `json:"strStatus"`
	StrPostponed     string `json:"strPostponed"`
	StrVenue         string `json:"strVenue"`
	StrHomeTeamBadge string `json:"strHomeTeamBadge"`
	StrAwayTeamBadge string `json:"strAwayTeamBadge"`
}
