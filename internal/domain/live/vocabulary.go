package live

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/match-center/internal/domain/match"
)

// Providers describe game state in league-specific free text that can change
// without notice. Each league gets an explicit lookup table over a closed set
// of known spellings; anything unmapped defaults to UPCOMING.
var statusVocabulary = map[match.League]map[string]Status{
	match.LeagueNBA: {
		"scheduled":          StatusUpcoming,
		"pre":                StatusUpcoming,
		"status_scheduled":   StatusUpcoming,
		"in progress":        StatusLive,
		"status_in_progress": StatusLive,
		"halftime":           StatusLive,
		"status_halftime":    StatusLive,
		"end of period":      StatusLive,
		"status_end_period":  StatusLive,
		"final":              StatusFinal,
		"status_final":       StatusFinal,
		"final/ot":           StatusFinal,
	},
	match.LeaguePremierLeague: {
		"scheduled":        StatusUpcoming,
		"status_scheduled": StatusUpcoming,
		"pre":              StatusUpcoming,
		"in progress":      StatusLive,
		"first half":       StatusLive,
		"1st half":         StatusLive,
		"halftime":         StatusLive,
		"ht":               StatusLive,
		"second half":      StatusLive,
		"2nd half":         StatusLive,
		"extra time":       StatusLive,
		"et":               StatusLive,
		"full time":        StatusFinal,
		"ft":               StatusFinal,
		"final":            StatusFinal,
		"aet":              StatusFinal,
		"status_full_time": StatusFinal,
	},
}

// StatusFromProvider maps a provider status string to the canonical enum.
// The lookup is exact on the normalized text, never substring matching.
func StatusFromProvider(league match.League, raw string) Status {
	table, ok := statusVocabulary[league]
	if !ok {
		return StatusUpcoming
	}
	if status, ok := table[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return status
	}
	return StatusUpcoming
}

// PeriodLabel renders the league-specific display label for a numeric period.
// Total over all ints: out-of-range periods get a generic label instead of
// an error.
func PeriodLabel(league match.League, period int) string {
	switch league {
	case match.LeagueNBA:
		switch {
		case period <= 0:
			return "Pregame"
		case period <= 4:
			return fmt.Sprintf("Q%d", period)
		default:
			return fmt.Sprintf("OT%d", period-4)
		}
	case match.LeaguePremierLeague:
		switch period {
		case 0:
			return "Pre-Match"
		case 1:
			return "1st Half"
		case 2:
			return "2nd Half"
		case 3, 4:
			return "Extra Time"
		default:
			return fmt.Sprintf("Period %d", period)
		}
	default:
		return fmt.Sprintf("Period %d", period)
	}
}
