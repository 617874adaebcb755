package apifootball

// fixturesEnvelope mirrors the api-football /fixtures response shape.
type fixturesEnvelope struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture fixtureInfo `json:"fixture"`
	League  leagueInfo  `json:"league"`
	Teams   teamsInfo   `json:"teams"`
	Goals   goalsInfo   `json:"goals"`
}

type fixtureInfo struct {
	ID     int64       `json:"id"`
	Date   string      `json:"date"`
	Status statusInfo  `json:"status"`
	Venue  venueInfo   `json:"venue"`
}

type statusInfo struct {
	Short string `json:"short"`
}

type venueInfo struct {
	Name string `json:"name"`
}

type leagueInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type teamsInfo struct {
	Home teamInfo `json:"home"`
	Away teamInfo `json:"away"`
}

type teamInfo struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type goalsInfo struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// oddsEnvelope mirrors the api-football /odds response shape.
type oddsEnvelope struct {
	Response []oddsItem `json:"response"`
}

type oddsItem struct {
	Bookmakers []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Bets []bet  `json:"bets"`
}

type bet struct {
	Name   string     `json:"name"`
	Values []betValue `json:"values"`
}

type betValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}
