package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/prediction"
)

var analyticsNow = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func pastEvent(home, away string, homeScore, awayScore int, daysAgo int) match.RawEvent {
	return match.RawEvent{
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		StartsAt:  analyticsNow.Add(-time.Duration(daysAgo) * 24 * time.Hour),
		Completed: true,
	}
}

func TestSeasonRecord(t *testing.T) {
	t.Parallel()

	events := []match.RawEvent{
		pastEvent("Lakers", "Celtics", 110, 100, 10), // Lakers win
		pastEvent("Celtics", "Lakers", 95, 99, 8),    // Lakers win
		pastEvent("Lakers", "Warriors", 90, 105, 6),  // Lakers loss
		pastEvent("Lakers", "Suns", 100, 100, 4),     // tie
		pastEvent("Warriors", "Suns", 120, 118, 3),   // Lakers not involved
		{ // future fixture, excluded from every bucket
			HomeTeam: "Lakers", AwayTeam: "Nuggets",
			StartsAt: analyticsNow.Add(48 * time.Hour),
		},
	}

	record := SeasonRecord(events, "Lakers", analyticsNow)

	if record.Wins != 2 || record.Losses != 1 || record.Ties != 1 {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.TotalGames != record.Wins+record.Losses+record.Ties {
		t.Fatalf("total games must equal wins+losses+ties: %+v", record)
	}
	if record.TotalGames != 4 {
		t.Fatalf("expected 4 counted games, got %d", record.TotalGames)
	}
}

func TestSeasonRecord_EventExactlyAtNowExcluded(t *testing.T) {
	t.Parallel()

	events := []match.RawEvent{{
		HomeTeam: "Lakers", AwayTeam: "Celtics",
		HomeScore: 1, StartsAt: analyticsNow,
	}}

	record := SeasonRecord(events, "Lakers", analyticsNow)
	if record.TotalGames != 0 {
		t.Fatalf("event at now is not strictly past, got %+v", record)
	}
}

func TestScoreHistory_PreservesSourceOrder(t *testing.T) {
	t.Parallel()

	// Deliberately out of date order; the list order must survive so two
	// teams' charts stay aligned.
	events := []match.RawEvent{
		pastEvent("Lakers", "Celtics", 10, 1, 2),
		pastEvent("Warriors", "Lakers", 3, 20, 9),
		pastEvent("Lakers", "Suns", 15, 4, 5),
	}

	got := ScoreHistory(events, "Lakers", analyticsNow)

	want := []int{10, 20, 15}
	if len(got) != len(want) {
		t.Fatalf("unexpected history length: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history[%d]: got=%d want=%d (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestTopFactors_StableOnTies(t *testing.T) {
	t.Parallel()

	pred := prediction.Prediction{
		DecisionFactors: []prediction.DecisionFactor{
			{Factor: "pace", Contribution: 0.2},
			{Factor: "home-court", Contribution: 0.5},
			{Factor: "rest-days", Contribution: 0.5},
			{Factor: "injuries", Contribution: 0.9},
		},
	}

	got := TopFactors(pred, 3)

	if len(got) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(got))
	}
	if got[0].Factor != "injuries" {
		t.Fatalf("expected injuries first, got %q", got[0].Factor)
	}
	// Equal contributions keep their original relative order.
	if got[1].Factor != "home-court" || got[2].Factor != "rest-days" {
		t.Fatalf("tie order not preserved: %q then %q", got[1].Factor, got[2].Factor)
	}
}

func TestTopFactors_DefaultKAndInputUntouched(t *testing.T) {
	t.Parallel()

	factors := []prediction.DecisionFactor{
		{Factor: "a", Contribution: 0.1},
		{Factor: "b", Contribution: 0.2},
		{Factor: "c", Contribution: 0.3},
		{Factor: "d", Contribution: 0.4},
	}
	pred := prediction.Prediction{DecisionFactors: factors}

	got := TopFactors(pred, 0)
	if len(got) != DefaultTopFactors {
		t.Fatalf("expected default k=%d, got %d", DefaultTopFactors, len(got))
	}
	if factors[0].Factor != "a" {
		t.Fatalf("input slice must not be reordered, got %q first", factors[0].Factor)
	}
}

func TestTopPerformers(t *testing.T) {
	t.Parallel()

	lines := []prediction.PlayerProjection{
		{PlayerName: "A", Points: 10, Assists: 12},
		{PlayerName: "B", Points: 30, Assists: 2},
		{PlayerName: "C", Points: 20, Assists: 8},
	}

	byPoints := TopPerformers(lines, prediction.StatPoints, 2)
	if len(byPoints) != 2 || byPoints[0].PlayerName != "B" || byPoints[1].PlayerName != "C" {
		t.Fatalf("unexpected points ranking: %+v", byPoints)
	}

	byAssists := TopPerformers(lines, prediction.StatAssists, 1)
	if len(byAssists) != 1 || byAssists[0].PlayerName != "A" {
		t.Fatalf("unexpected assists ranking: %+v", byAssists)
	}

	if got := TopPerformers(lines, prediction.StatPoints, 0); got != nil {
		t.Fatalf("expected nil for k=0, got %+v", got)
	}
}

func TestMultiCategoryStars(t *testing.T) {
	t.Parallel()

	thresholds := StatThresholds{Points: 20, Assists: 5, Rebounds: 8}
	lines := []prediction.PlayerProjection{
		{PlayerName: "all three", Points: 25, Assists: 7, Rebounds: 10},
		{PlayerName: "two of three", Points: 22, Assists: 6, Rebounds: 2},
		{PlayerName: "one of three", Points: 30, Assists: 1, Rebounds: 1},
		{PlayerName: "none", Points: 5, Assists: 1, Rebounds: 1},
	}

	stars := MultiCategoryStars(lines, thresholds)

	if len(stars) != 2 {
		t.Fatalf("expected 2 stars, got %d: %+v", len(stars), stars)
	}
	if stars[0].PlayerName != "all three" || stars[1].PlayerName != "two of three" {
		t.Fatalf("unexpected stars order: %+v", stars)
	}
}

func TestFantasyScore(t *testing.T) {
	t.Parallel()

	line := prediction.PlayerProjection{Points: 10, Assists: 4, Rebounds: 5}

	got := FantasyScore(line)
	want := 10*1.0 + 4*1.5 + 5*1.2
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("unexpected fantasy score: got=%v want=%v", got, want)
	}
}
