package espn

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/live"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/usecase"
)

// Scoreboard timestamps arrive as zone-suffixed minutes ("2025-03-01T00:30Z")
// with the occasional full RFC3339 value.
var eventTimeLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
}

func parseEventTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty event date")
	}
	var lastErr error
	for _, layout := range eventTimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// mapGames normalizes a full scoreboard payload into canonical games. Any
// event missing its required fields aborts the whole normalization; the
// caller never receives partially populated entities.
func mapGames(league match.League, events []eventItem, logger *logging.Logger) ([]match.Game, error) {
	out := make([]match.Game, 0, len(events))
	for _, ev := range events {
		game, err := mapGame(league, ev)
		if err != nil {
			return nil, err
		}
		if ev.Name != "" && !game.MatchesOfficialName(ev.Name) {
			logger.Warn("event name mismatch",
				"league", string(league),
				"event_id", ev.ID,
				"official", ev.Name,
				"reconstructed", game.EventName(),
			)
		}
		out = append(out, game)
	}
	return out, nil
}

func mapGame(league match.League, ev eventItem) (match.Game, error) {
	home, away, err := splitCompetitors(ev)
	if err != nil {
		return match.Game{}, err
	}

	homeTeam := mapTeam(home.Team)
	awayTeam := mapTeam(away.Team)
	if homeTeam.DisplayName == "" || awayTeam.DisplayName == "" {
		return match.Game{}, fmt.Errorf("%w: event %s is missing a team display name", usecase.ErrMalformedUpstream, ev.ID)
	}

	startsAt, err := parseEventTime(ev.Date)
	if err != nil {
		return match.Game{}, fmt.Errorf("%w: event %s has unparseable date %q: %v", usecase.ErrMalformedUpstream, ev.ID, ev.Date, err)
	}

	return match.Game{
		League:   league,
		EventID:  ev.ID,
		HomeTeam: homeTeam,
		AwayTeam: awayTeam,
		GameDate: startsAt.Format("2006-01-02"),
		StartsAt: startsAt,
	}, nil
}

// splitCompetitors resolves which competitor is which side. Explicit
// homeAway tags win; without them the provider's fixed ordering applies,
// competitor 0 home and competitor 1 away.
func splitCompetitors(ev eventItem) (competitorItem, competitorItem, error) {
	if len(ev.Competitions) == 0 {
		return competitorItem{}, competitorItem{}, fmt.Errorf("%w: event %s has no competitions", usecase.ErrMalformedUpstream, ev.ID)
	}
	competitors := ev.Competitions[0].Competitors
	if len(competitors) < 2 {
		return competitorItem{}, competitorItem{}, fmt.Errorf("%w: event %s has %d competitors", usecase.ErrMalformedUpstream, ev.ID, len(competitors))
	}

	var home, away *competitorItem
	for i := range competitors {
		switch strings.ToLower(competitors[i].HomeAway) {
		case "home":
			home = &competitors[i]
		case "away":
			away = &competitors[i]
		}
	}
	if home == nil || away == nil {
		return competitors[0], competitors[1], nil
	}
	return *home, *away, nil
}

func mapTeam(item teamItem) match.Team {
	return match.Team{
		DisplayName:    strings.TrimSpace(item.DisplayName),
		Abbreviation:   strings.TrimSpace(item.Abbreviation),
		Color:          strings.TrimSpace(item.Color),
		AlternateColor: strings.TrimSpace(item.AlternateColor),
	}
}

// mapSnapshot builds the live view of one event. Clock is carried only while
// LIVE, score while LIVE or FINAL, leaders only while LIVE.
func mapSnapshot(league match.League, ev eventItem) (live.Snapshot, error) {
	home, away, err := splitCompetitors(ev)
	if err != nil {
		return live.Snapshot{}, err
	}

	status := statusFromEvent(league, ev)
	snap := live.Snapshot{
		GameID: ev.ID,
		League: league,
		Status: status,
	}

	if status == live.StatusLive || status == live.StatusFinal {
		snap.PeriodLabel = live.PeriodLabel(league, ev.Status.Period)
		snap.Score = &live.Score{
			Home: parseScore(home.Score),
			Away: parseScore(away.Score),
		}
	}
	if status == live.StatusLive {
		snap.Clock = ev.Status.DisplayClock
		snap.Leaders = mapLeaders(home, away)
	}

	return snap, nil
}

func statusFromEvent(league match.League, ev eventItem) live.Status {
	// The type name is the stable vocabulary; description is a display
	// fallback some leagues fill instead.
	if status := live.StatusFromProvider(league, ev.Status.Type.Name); status != live.StatusUpcoming {
		return status
	}
	if status := live.StatusFromProvider(league, ev.Status.Type.Description); status != live.StatusUpcoming {
		return status
	}
	if ev.Status.Type.Completed {
		return live.StatusFinal
	}
	return live.StatusUpcoming
}

func parseScore(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

func mapLeaders(home, away competitorItem) []live.Leader {
	out := make([]live.Leader, 0, 6)
	for _, side := range []competitorItem{home, away} {
		teamName := strings.TrimSpace(side.Team.DisplayName)
		for _, category := range side.Leaders {
			name := category.DisplayName
			if name == "" {
				name = category.Name
			}
			for _, item := range category.Leaders {
				out = append(out, live.Leader{
					TeamName:   teamName,
					Category:   name,
					PlayerName: item.Athlete.DisplayName,
					Headshot:   item.Athlete.Headshot,
					StatLine:   item.DisplayValue,
				})
				// Only the top entry per category matters for the live card.
				break
			}
		}
	}
	return out
}

// mapRawEvents keeps historical rows close to the provider shape, in payload
// order. Analytics replay depends on that ordering staying untouched.
func mapRawEvents(events []eventItem) []match.RawEvent {
	out := make([]match.RawEvent, 0, len(events))
	for _, ev := range events {
		home, away, err := splitCompetitors(ev)
		if err != nil {
			continue
		}
		startsAt, err := parseEventTime(ev.Date)
		if err != nil {
			continue
		}
		out = append(out, match.RawEvent{
			EventID:   ev.ID,
			Name:      ev.Name,
			StartsAt:  startsAt,
			HomeTeam:  strings.TrimSpace(home.Team.DisplayName),
			AwayTeam:  strings.TrimSpace(away.Team.DisplayName),
			HomeScore: parseScore(home.Score),
			AwayScore: parseScore(away.Score),
			Completed: ev.Status.Type.Completed,
		})
	}
	return out
}
