package match

import (
	"fmt"
	"strings"
	"time"
)

// League identifies one of the fixed set of leagues the service aggregates.
type League string

const (
	LeagueNBA           League = "nba"
	LeaguePremierLeague League = "epl"
)

var AllLeagues = []League{LeagueNBA, LeaguePremierLeague}

func ParseLeague(value string) (League, error) {
	switch League(strings.ToLower(strings.TrimSpace(value))) {
	case LeagueNBA:
		return LeagueNBA, nil
	case LeaguePremierLeague:
		return LeaguePremierLeague, nil
	default:
		return "", fmt.Errorf("unknown league %q", value)
	}
}

func (l League) Valid() bool {
	switch l {
	case LeagueNBA, LeaguePremierLeague:
		return true
	default:
		return false
	}
}

// Team is a display snapshot of one side of a game. Teams have no stable
// upstream identifier; DisplayName is the identity within a league.
type Team struct {
	DisplayName    string `json:"displayName"`
	Abbreviation   string `json:"abbreviation,omitempty"`
	Color          string `json:"color,omitempty"`
	AlternateColor string `json:"alternateColor,omitempty"`
}

// Game is the canonical normalized shape of one scheduled or played match.
// Entities are rebuilt wholesale on every fetch; nothing mutates them in place.
type Game struct {
	League   League    `json:"league"`
	EventID  string    `json:"eventId"`
	HomeTeam Team      `json:"homeTeam"`
	AwayTeam Team      `json:"awayTeam"`
	GameDate string    `json:"gameDate"`
	StartsAt time.Time `json:"startsAt"`
}

// EventName reconstructs the provider's official event name from the two
// normalized sides.
func (g Game) EventName() string {
	return g.AwayTeam.DisplayName + " at " + g.HomeTeam.DisplayName
}

// MatchesOfficialName compares the reconstructed name against the provider's
// official one, case sensitively. A mismatch is a consistency signal only;
// callers log it and keep the entity.
func (g Game) MatchesOfficialName(official string) bool {
	return g.EventName() == official
}

// RawEvent is one historical scoreboard row kept close to the provider shape.
// Derived analytics replay lists of these without re-sorting them.
type RawEvent struct {
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	StartsAt  time.Time `json:"startsAt"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	HomeScore int       `json:"homeScore"`
	AwayScore int       `json:"awayScore"`
	Completed bool      `json:"completed"`
}

// Involves reports whether the named team plays on either side of the event.
func (e RawEvent) Involves(teamName string) bool {
	return e.HomeTeam == teamName || e.AwayTeam == teamName
}

// TeamRecord is a season win/loss/tie tally derived from past events.
type TeamRecord struct {
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Ties       int `json:"ties"`
	TotalGames int `json:"totalGames"`
}

// WithinWindow reports whether an event instant falls in the forward-looking
// window [now, now+days]. The upper bound is inclusive: an event exactly
// days*24h ahead still counts.
func WithinWindow(eventAt, now time.Time, days int) bool {
	diff := eventAt.Sub(now)
	return diff >= 0 && diff <= time.Duration(days)*24*time.Hour
}
