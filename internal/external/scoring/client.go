package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/prediction"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/platform/resilience"
	"github.com/riskibarqy/match-center/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

var errScoringTransient = crerr.New("scoring transient failure")

type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client calls the remote prediction-scoring service. The model behind it is
// opaque; this client only shuttles a game reference out and a scored
// prediction back.
type Client struct {
	http           *fasthttp.Client
	baseURL        string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

type scoreRequest struct {
	GameID string `json:"gameId"`
	League string `json:"league"`
}

type scoreResponse struct {
	Prediction *prediction.Prediction `json:"prediction"`
	Error      string                 `json:"error,omitempty"`
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		http:           &fasthttp.Client{ReadTimeout: timeout, WriteTimeout: timeout},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenLimit),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Score requests a live prediction for one game. Every failure surfaces as
// the typed ErrPredictionUnavailable so batch callers can drop just that
// game instead of failing the batch.
func (c *Client) Score(ctx context.Context, league match.League, gameID string) (prediction.Prediction, error) {
	if strings.TrimSpace(gameID) == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: game id is required", usecase.ErrInvalidInput)
	}
	if c.baseURL == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: scoring service is not configured", usecase.ErrPredictionUnavailable)
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "scoring circuit breaker rejected request", "state", c.breaker.State())
			return prediction.Prediction{}, fmt.Errorf("%w: scoring service is temporarily unavailable", usecase.ErrPredictionUnavailable)
		}
	}

	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)

	payload, err := sonic.Marshal(scoreRequest{GameID: gameID, League: string(league)})
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("marshal score request: %w", err)
	}
	_, _ = body.Write(payload)

	raw, err := c.post(ctx, c.baseURL+"/v1/score", body.B)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errScoringTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		c.logger.WarnContext(ctx, "score request failed", "game_id", gameID, "league", string(league), "error", err)
		return prediction.Prediction{}, fmt.Errorf("%w: game %s: %v", usecase.ErrPredictionUnavailable, gameID, err)
	}

	var decoded scoreResponse
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: game %s: decode response: %v", usecase.ErrPredictionUnavailable, gameID, err)
	}
	if decoded.Error != "" || decoded.Prediction == nil {
		reason := decoded.Error
		if reason == "" {
			reason = "empty prediction"
		}
		return prediction.Prediction{}, fmt.Errorf("%w: game %s: %s", usecase.ErrPredictionUnavailable, gameID, reason)
	}

	return *decoded.Prediction, nil
}

func (c *Client) post(ctx context.Context, fullURL string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()

		req.SetRequestURI(fullURL)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		req.Header.Set("accept", "application/json")
		req.SetBody(body)

		err := c.http.DoTimeout(req, resp, c.timeout)
		status := resp.StatusCode()
		raw := append([]byte(nil), resp.Body()...)

		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)

		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: send request: %v", errScoringTransient, err)
		case status >= 200 && status < 300:
			return raw, nil
		case status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError:
			lastErr = fmt.Errorf("%w: scoring status=%d", errScoringTransient, status)
		default:
			return nil, fmt.Errorf("scoring status=%d", status)
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("scoring request failed")
	}
	return nil, lastErr
}
