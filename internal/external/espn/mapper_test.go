package espn

import (
	"errors"
	"reflect"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-center/internal/domain/live"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/usecase"
	"github.com/stretchr/testify/require"
)

const scoreboardFixture = `{
  "events": [
    {
      "id": "401585601",
      "date": "2025-03-01T00:30Z",
      "name": "Miami Heat at Boston Celtics",
      "shortName": "MIA @ BOS",
      "status": {
        "clock": 312.0,
        "displayClock": "5:12",
        "period": 3,
        "type": {"name": "In Progress", "state": "in", "completed": false}
      },
      "competitions": [
        {
          "competitors": [
            {
              "homeAway": "home",
              "score": "78",
              "team": {"displayName": "Boston Celtics", "abbreviation": "BOS", "color": "008348"},
              "leaders": [
                {
                  "displayName": "Points",
                  "leaders": [{"displayValue": "24 PTS", "athlete": {"displayName": "Jayson Tatum"}}]
                }
              ]
            },
            {
              "homeAway": "away",
              "score": "71",
              "team": {"displayName": "Miami Heat", "abbreviation": "MIA"},
              "leaders": []
            }
          ]
        }
      ]
    }
  ]
}`

func decodeFixture(t *testing.T, raw string) scoreboardEnvelope {
	t.Helper()
	var envelope scoreboardEnvelope
	require.NoError(t, sonic.Unmarshal([]byte(raw), &envelope))
	return envelope
}

func TestMapGames_PopulatesBothSides(t *testing.T) {
	t.Parallel()

	envelope := decodeFixture(t, scoreboardFixture)

	games, err := mapGames(match.LeagueNBA, envelope.Events, logging.NewNop())
	require.NoError(t, err)
	require.Len(t, games, 1)

	game := games[0]
	require.Equal(t, "Boston Celtics", game.HomeTeam.DisplayName)
	require.Equal(t, "Miami Heat", game.AwayTeam.DisplayName)
	require.Equal(t, "401585601", game.EventID)
	require.Equal(t, "2025-03-01", game.GameDate)
	require.True(t, game.MatchesOfficialName("Miami Heat at Boston Celtics"))
}

func TestMapGames_NameMismatchStillReturnsGame(t *testing.T) {
	t.Parallel()

	envelope := decodeFixture(t, scoreboardFixture)
	envelope.Events[0].Name = "Heat at Celtics"

	games, err := mapGames(match.LeagueNBA, envelope.Events, logging.NewNop())
	require.NoError(t, err)
	require.Len(t, games, 1)

	game := games[0]
	require.Equal(t, "Boston Celtics", game.HomeTeam.DisplayName)
	require.Equal(t, "Miami Heat", game.AwayTeam.DisplayName)
	require.Equal(t, "401585601", game.EventID)
	require.False(t, game.MatchesOfficialName("Heat at Celtics"))
}

func TestMapGames_Idempotent(t *testing.T) {
	t.Parallel()

	envelope := decodeFixture(t, scoreboardFixture)

	first, err := mapGames(match.LeagueNBA, envelope.Events, logging.NewNop())
	require.NoError(t, err)
	second, err := mapGames(match.LeagueNBA, envelope.Events, logging.NewNop())
	require.NoError(t, err)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-normalizing the same payload diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestMapGames_MissingDisplayNameFailsFast(t *testing.T) {
	t.Parallel()

	envelope := decodeFixture(t, scoreboardFixture)
	envelope.Events[0].Competitions[0].Competitors[0].Team.DisplayName = ""

	_, err := mapGames(match.LeagueNBA, envelope.Events, logging.NewNop())
	if !errors.Is(err, usecase.ErrMalformedUpstream) {
		t.Fatalf("expected ErrMalformedUpstream, got %v", err)
	}
}

func TestMapGames_BadEventAbortsWholePayload(t *testing.T) {
	t.Parallel()

	envelope := decodeFixture(t, scoreboardFixture)
	bad := envelope.Events[0]
	bad.ID = "broken"
	bad.Date = "not-a-date"
	envelope.Events = append(envelope.Events, bad)

	games, err := mapGames(match.LeagueNBA, envelope.Events, logging.NewNop())
	if !errors.Is(err, usecase.ErrMalformedUpstream) {
		t.Fatalf("expected ErrMalformedUpstream, got %v", err)
	}
	if games != nil {
		t.Fatalf("no partial result on malformed payload, got %+v", games)
	}
}

func TestSplitCompetitors_FallbackOrdering(t *testing.T) {
	t.Parallel()

	// Without homeAway tags the provider's fixed ordering applies:
	// index 0 is home, index 1 is away.
	ev := eventItem{
		ID: "e1",
		Competitions: []competitionItem{{
			Competitors: []competitorItem{
				{Team: teamItem{DisplayName: "Arsenal"}},
				{Team: teamItem{DisplayName: "Chelsea"}},
			},
		}},
	}

	home, away, err := splitCompetitors(ev)
	require.NoError(t, err)
	require.Equal(t, "Arsenal", home.Team.DisplayName)
	require.Equal(t, "Chelsea", away.Team.DisplayName)
}

func TestSplitCompetitors_TooFewCompetitors(t *testing.T) {
	t.Parallel()

	ev := eventItem{
		ID: "e1",
		Competitions: []competitionItem{{
			Competitors: []competitorItem{{Team: teamItem{DisplayName: "Arsenal"}}},
		}},
	}

	_, _, err := splitCompetitors(ev)
	if !errors.Is(err, usecase.ErrMalformedUpstream) {
		t.Fatalf("expected ErrMalformedUpstream, got %v", err)
	}
}

func TestMapSnapshot_LiveGame(t *testing.T) {
	t.Parallel()

	envelope := decodeFixture(t, scoreboardFixture)

	snap, err := mapSnapshot(match.LeagueNBA, envelope.Events[0])
	require.NoError(t, err)

	require.Equal(t, live.StatusLive, snap.Status)
	require.Equal(t, "Q3", snap.PeriodLabel)
	require.Equal(t, "5:12", snap.Clock)
	require.NotNil(t, snap.Score)
	require.Equal(t, 78, snap.Score.Home)
	require.Equal(t, 71, snap.Score.Away)
	require.Len(t, snap.Leaders, 1)
	require.Equal(t, "Jayson Tatum", snap.Leaders[0].PlayerName)
	require.Equal(t, "Boston Celtics", snap.Leaders[0].TeamName)
}

func TestMapSnapshot_FinalDropsClockAndLeaders(t *testing.T) {
	t.Parallel()

	envelope := decodeFixture(t, scoreboardFixture)
	ev := envelope.Events[0]
	ev.Status.Type.Name = "Final"
	ev.Status.Type.Completed = true
	ev.Status.Period = 4

	snap, err := mapSnapshot(match.LeagueNBA, ev)
	require.NoError(t, err)

	require.Equal(t, live.StatusFinal, snap.Status)
	require.NotNil(t, snap.Score)
	require.Empty(t, snap.Clock)
	require.Empty(t, snap.Leaders)
}

func TestMapSnapshot_UpcomingCarriesNoScore(t *testing.T) {
	t.Parallel()

	envelope := decodeFixture(t, scoreboardFixture)
	ev := envelope.Events[0]
	ev.Status.Type.Name = "Scheduled"
	ev.Status.Type.Completed = false

	snap, err := mapSnapshot(match.LeagueNBA, ev)
	require.NoError(t, err)

	require.Equal(t, live.StatusUpcoming, snap.Status)
	require.Nil(t, snap.Score)
	require.Empty(t, snap.PeriodLabel)
}

func TestStatusFromEvent_CompletedFallback(t *testing.T) {
	t.Parallel()

	ev := eventItem{Status: statusItem{Type: statusTypeItem{Name: "something new", Completed: true}}}
	if got := statusFromEvent(match.LeagueNBA, ev); got != live.StatusFinal {
		t.Fatalf("expected completed fallback to FINAL, got %s", got)
	}
}

func TestMapRawEvents_KeepsPayloadOrderAndSkipsBadRows(t *testing.T) {
	t.Parallel()

	envelope := decodeFixture(t, scoreboardFixture)
	good := envelope.Events[0]

	second := good
	second.ID = "401585602"
	second.Date = "2025-02-20T19:00Z"

	broken := good
	broken.ID = "broken"
	broken.Date = "???"

	rows := mapRawEvents([]eventItem{second, broken, good})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].EventID != "401585602" || rows[1].EventID != "401585601" {
		t.Fatalf("payload order not preserved: %+v", rows)
	}
	if rows[0].HomeTeam != "Boston Celtics" || rows[0].AwayTeam != "Miami Heat" {
		t.Fatalf("unexpected sides: %+v", rows[0])
	}
	if rows[1].HomeScore != 78 || rows[1].AwayScore != 71 {
		t.Fatalf("unexpected scores: %+v", rows[1])
	}
}
