package analytics

import (
	"sort"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/prediction"
)

const DefaultTopFactors = 3

// Fantasy scoring weights. Fixed across leagues.
const (
	fantasyPointsWeight   = 1.0
	fantasyAssistsWeight  = 1.5
	fantasyReboundsWeight = 1.2
)

// SeasonRecord replays a team's historical events and tallies past outcomes.
// Only events strictly before now count; future fixtures are excluded
// entirely rather than counted as any outcome. The team's side per event is
// resolved by display-name identity, the only identity upstream provides.
func SeasonRecord(events []match.RawEvent, teamName string, now time.Time) match.TeamRecord {
	var record match.TeamRecord
	for _, ev := range events {
		if !ev.StartsAt.Before(now) || !ev.Involves(teamName) {
			continue
		}

		teamScore, opponentScore := sideScores(ev, teamName)
		switch {
		case teamScore > opponentScore:
			record.Wins++
		case teamScore < opponentScore:
			record.Losses++
		default:
			record.Ties++
		}
		record.TotalGames++
	}
	return record
}

// ScoreHistory collects the team's own score per past event, in source-list
// order. Comparison charts overlay two teams' histories and rely on both
// staying aligned to the same list order, so no re-sort by date here.
func ScoreHistory(events []match.RawEvent, teamName string, now time.Time) []int {
	out := make([]int, 0, len(events))
	for _, ev := range events {
		if !ev.StartsAt.Before(now) || !ev.Involves(teamName) {
			continue
		}
		teamScore, _ := sideScores(ev, teamName)
		out = append(out, teamScore)
	}
	return out
}

func sideScores(ev match.RawEvent, teamName string) (int, int) {
	if ev.HomeTeam == teamName {
		return ev.HomeScore, ev.AwayScore
	}
	return ev.AwayScore, ev.HomeScore
}

// TopFactors returns the k highest-contribution decision factors. The sort
// is stable so equal contributions keep their original relative order.
func TopFactors(p prediction.Prediction, k int) []prediction.DecisionFactor {
	if k <= 0 {
		k = DefaultTopFactors
	}

	factors := append([]prediction.DecisionFactor(nil), p.DecisionFactors...)
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Contribution > factors[j].Contribution
	})

	if len(factors) > k {
		factors = factors[:k]
	}
	return factors
}

// TopPerformers ranks projected stat lines by one category, descending,
// and returns the top k. Stable on ties.
func TopPerformers(lines []prediction.PlayerProjection, category prediction.StatCategory, k int) []prediction.PlayerProjection {
	if k <= 0 {
		return nil
	}

	ranked := append([]prediction.PlayerProjection(nil), lines...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Stat(category) > ranked[j].Stat(category)
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// StatThresholds are the caller-supplied floors for the multi-category
// star filter.
type StatThresholds struct {
	Points   float64
	Assists  float64
	Rebounds float64
}

// MultiCategoryStars keeps projections meeting at least two of the three
// thresholds simultaneously, preserving input order.
func MultiCategoryStars(lines []prediction.PlayerProjection, thresholds StatThresholds) []prediction.PlayerProjection {
	out := make([]prediction.PlayerProjection, 0, len(lines))
	for _, line := range lines {
		met := 0
		if line.Points >= thresholds.Points {
			met++
		}
		if line.Assists >= thresholds.Assists {
			met++
		}
		if line.Rebounds >= thresholds.Rebounds {
			met++
		}
		if met >= 2 {
			out = append(out, line)
		}
	}
	return out
}

// FantasyScore is the fixed weighted sum over a projected stat line.
func FantasyScore(line prediction.PlayerProjection) float64 {
	return line.Points*fantasyPointsWeight +
		line.Assists*fantasyAssistsWeight +
		line.Rebounds*fantasyReboundsWeight
}
