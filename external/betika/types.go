package betika

// matchesEnvelope mirrors the betika upcoming-matches API response.
type matchesEnvelope struct {
	Data []matchItem `json:"data"`
}

type matchItem struct {
	ParentMatchID int64  `json:"parent_match_id"`
	HomeTeam      string `json:"home_team"`
	AwayTeam      string `json:"away_team"`
	StartTime     string `json:"start_time"`
	Competition   string `json:"competition_name"`
	HomeOdd       string `json:"home_odd"`
	NeutralOdd    string `json:"neutral_odd"`
	AwayOdd       string `json:"away_odd"`
}
