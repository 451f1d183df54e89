package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-center/internal/domain/live"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/platform/resilience"
	"github.com/riskibarqy/match-center/internal/usecase"
)

const (
	defaultBaseURL  = "https://site.api.espn.com/apis/site/v2/sports"
	dateParamLayout = "20060102"
	scoreboardLimit = "500"
)

var errScoreboardTransient = crerr.New("scoreboard transient failure")

// leaguePaths pins each canonical league to its provider path segment.
var leaguePaths = map[match.League]string{
	match.LeagueNBA:           "basketball/nba",
	match.LeaguePremierLeague: "soccer/eng.1",
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	League         match.League
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches and normalizes scoreboard data for exactly one league.
// One instance per league keeps breaker state and failure isolation
// per source.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	league         match.League
	leaguePath     string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
}

func NewClient(cfg ClientConfig) (*Client, error) {
	leaguePath, ok := leaguePaths[cfg.League]
	if !ok {
		return nil, fmt.Errorf("no provider path for league %q", cfg.League)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		league:         cfg.League,
		leaguePath:     leaguePath,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenLimit),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}, nil
}

func (c *Client) League() match.League {
	return c.league
}

// Ping issues the cheapest scoreboard request as a liveness probe.
func (c *Client) Ping(ctx context.Context) error {
	var envelope scoreboardEnvelope
	_, err := c.doJSON(ctx, "/scoreboard", map[string]string{"limit": "1"}, &envelope)
	return err
}

// ListUpcoming fetches the forward window and filters it against "now" at
// call time. The filter is never cached across calls; the window of
// interest is always "next N days from today".
func (c *Client) ListUpcoming(ctx context.Context, windowDays int) ([]match.Game, error) {
	now := c.now()
	games, err := c.fetchGames(ctx, now, now.AddDate(0, 0, windowDays))
	if err != nil {
		return nil, err
	}

	out := make([]match.Game, 0, len(games))
	for _, game := range games {
		if match.WithinWindow(game.StartsAt, now, windowDays) {
			out = append(out, game)
		}
	}
	return out, nil
}

// ListToday fetches the provider's current scoreboard day.
func (c *Client) ListToday(ctx context.Context) ([]match.Game, error) {
	envelope, err := c.fetchScoreboard(ctx, nil)
	if err != nil {
		return nil, err
	}
	return mapGames(c.league, envelope.Events, c.logger)
}

// LiveBoard normalizes every event on today's scoreboard into a live
// snapshot. Each call reflects exactly one upstream response.
func (c *Client) LiveBoard(ctx context.Context) ([]live.Snapshot, error) {
	envelope, err := c.fetchScoreboard(ctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]live.Snapshot, 0, len(envelope.Events))
	for _, ev := range envelope.Events {
		snap, err := mapSnapshot(c.league, ev)
		if err != nil {
			return nil, err
		}
		snap.FetchedAt = c.now()
		out = append(out, snap)
	}
	return out, nil
}

// ListHistorical returns raw scoreboard rows involving the named team within
// the date range, in provider payload order.
func (c *Client) ListHistorical(ctx context.Context, teamName string, from, to time.Time) ([]match.RawEvent, error) {
	envelope, err := c.fetchScoreboard(ctx, map[string]string{
		"dates": from.Format(dateParamLayout) + "-" + to.Format(dateParamLayout),
		"limit": scoreboardLimit,
	})
	if err != nil {
		return nil, err
	}

	events := mapRawEvents(envelope.Events)
	if strings.TrimSpace(teamName) == "" {
		return events, nil
	}

	out := make([]match.RawEvent, 0, len(events))
	for _, ev := range events {
		if ev.Involves(teamName) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (c *Client) fetchGames(ctx context.Context, from, to time.Time) ([]match.Game, error) {
	envelope, err := c.fetchScoreboard(ctx, map[string]string{
		"dates": from.Format(dateParamLayout) + "-" + to.Format(dateParamLayout),
		"limit": scoreboardLimit,
	})
	if err != nil {
		return nil, err
	}
	return mapGames(c.league, envelope.Events, c.logger)
}

func (c *Client) fetchScoreboard(ctx context.Context, query map[string]string) (scoreboardEnvelope, error) {
	var envelope scoreboardEnvelope
	if _, err := c.doJSON(ctx, "/scoreboard", query, &envelope); err != nil {
		return scoreboardEnvelope{}, err
	}
	return envelope, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "scoreboard circuit breaker rejected request",
				"league", string(c.league),
				"state", c.breaker.State(),
			)
			return nil, fmt.Errorf("%w: scoreboard provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + "/" + c.leaguePath + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errScoreboardTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("%w: decode provider payload: %v", usecase.ErrMalformedUpstream, err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errScoreboardTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errScoreboardTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errScoreboardTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "scoreboard request failed",
		"league", string(c.league),
		"url", fullURL,
		"error", lastErr,
	)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > maxLen {
		return body[:maxLen] + "..."
	}
	return body
}
