package sofascore

// eventsEnvelope mirrors the sofascore events response shape.
type eventsEnvelope struct {
	Events []eventItem `json:"events"`
}

type eventItem struct {
	ID             int64      `json:"id"`
	Tournament     tournament `json:"tournament"`
	HomeTeam       team       `json:"homeTeam"`
	AwayTeam       team       `json:"awayTeam"`
	HomeScore      score      `json:"homeScore"`
	AwayScore      score      `json:"awayScore"`
	Status         status     `json:"status"`
	StartTimestamp int64      `json:"startTimestamp"`
	Venue          venue      `json:"venue"`
}

type tournament struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type score struct {
	Current *int `json:"current"`
}

type status struct {
	Type string `json:"type"`
}

type venue struct {
	Stadium stadium `json:"stadium"`
}

type stadium struct {
	Name string `json:"name"`
}
