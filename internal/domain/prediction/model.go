package prediction

// DecisionFactor is one named, weighted contributor to a prediction's
// confidence. Contribution is the ranking key when selecting top factors.
type DecisionFactor struct {
	Factor       string  `json:"factor"`
	Importance   float64 `json:"importance"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
}

// Prediction is the remote scoring service's answer for one game.
type Prediction struct {
	Match           string           `json:"match"`
	PredictedWinner string           `json:"predictedWinner"`
	Confidence      float64          `json:"confidence"`
	DecisionFactors []DecisionFactor `json:"decisionFactors"`
}

// PlayerProjection is a predicted stat line for one player in one game.
type PlayerProjection struct {
	PlayerName string  `json:"playerName"`
	TeamName   string  `json:"teamName"`
	Points     float64 `json:"points"`
	Assists    float64 `json:"assists"`
	Rebounds   float64 `json:"rebounds"`
}

// StatCategory selects the ranking dimension for top-performer extraction.
type StatCategory string

const (
	StatPoints   StatCategory = "points"
	StatAssists  StatCategory = "assists"
	StatRebounds StatCategory = "rebounds"
)

func (p PlayerProjection) Stat(category StatCategory) float64 {
	switch category {
	case StatAssists:
		return p.Assists
	case StatRebounds:
		return p.Rebounds
	default:
		return p.Points
	}
}
