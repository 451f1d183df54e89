package espn

// Wire shapes for the scoreboard API. Only the fields the mappers read are
// declared; the payloads carry far more.

type scoreboardEnvelope struct {
	Events []eventItem `json:"events"`
}

type eventItem struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Name         string            `json:"name"`
	ShortName    string            `json:"shortName"`
	Competitions []competitionItem `json:"competitions"`
	Status       statusItem        `json:"status"`
}

type competitionItem struct {
	ID          string           `json:"id"`
	Date        string           `json:"date"`
	Competitors []competitorItem `json:"competitors"`
	Leaders     []leaderCategory `json:"leaders"`
	Status      statusItem       `json:"status"`
}

type competitorItem struct {
	ID       string           `json:"id"`
	HomeAway string           `json:"homeAway"`
	Score    string           `json:"score"`
	Team     teamItem         `json:"team"`
	Leaders  []leaderCategory `json:"leaders"`
}

type teamItem struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	Abbreviation   string `json:"abbreviation"`
	Color          string `json:"color"`
	AlternateColor string `json:"alternateColor"`
}

type statusItem struct {
	Clock        float64        `json:"clock"`
	DisplayClock string         `json:"displayClock"`
	Period       int            `json:"period"`
	Type         statusTypeItem `json:"type"`
}

type statusTypeItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"`
	Completed   bool   `json:"completed"`
	Description string `json:"description"`
}

type leaderCategory struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Leaders     []leaderItem `json:"leaders"`
}

type leaderItem struct {
	DisplayValue string      `json:"displayValue"`
	Athlete      athleteItem `json:"athlete"`
}

type athleteItem struct {
	DisplayName string `json:"displayName"`
	Headshot    string `json:"headshot"`
}
