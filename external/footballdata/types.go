package footballdata

// matchesEnvelope mirrors the football-data.org v4 matches response.
type matchesEnvelope struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID          int64       `json:"id"`
	UTCDate     string      `json:"utcDate"`
	Status      string      `json:"status"`
	Venue       string      `json:"venue"`
	Competition competition `json:"competition"`
	HomeTeam    matchTeam   `json:"homeTeam"`
	AwayTeam    matchTeam   `json:"awayTeam"`
	Score       matchScore  `json:"score"`
}

type competition struct {
	Name string `json:"name"`
}

type matchTeam struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Crest     string `json:"crest"`
}

type matchScore struct {
	FullTime scorePair `json:"fullTime"`
}

type scorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
