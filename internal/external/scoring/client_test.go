package scoring

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/platform/resilience"
	"github.com/riskibarqy/match-center/internal/usecase"
)

func newTestClient(baseURL string, maxRetries int) *Client {
	return NewClient(ClientConfig{
		BaseURL:        baseURL,
		Timeout:        2 * time.Second,
		MaxRetries:     maxRetries,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{},
	})
}

func TestClient_Score(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/score" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		raw, _ := io.ReadAll(r.Body)
		var req map[string]string
		if err := sonic.Unmarshal(raw, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["gameId"] != "401585601" || req["league"] != "nba" {
			t.Errorf("unexpected request body: %v", req)
		}

		_, _ = w.Write([]byte(`{"prediction": {
			"match": "Miami Heat at Boston Celtics",
			"predictedWinner": "Boston Celtics",
			"confidence": 72.5,
			"decisionFactors": [{"factor": "home-court", "importance": 0.4, "value": 1, "contribution": 0.4}]
		}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 0)

	pred, err := client.Score(context.Background(), match.LeagueNBA, "401585601")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if pred.PredictedWinner != "Boston Celtics" || pred.Confidence != 72.5 {
		t.Fatalf("unexpected prediction: %+v", pred)
	}
	if len(pred.DecisionFactors) != 1 {
		t.Fatalf("unexpected factors: %+v", pred.DecisionFactors)
	}
}

func TestClient_Score_EmptyGameID(t *testing.T) {
	t.Parallel()

	client := newTestClient("http://localhost:0", 0)

	_, err := client.Score(context.Background(), match.LeagueNBA, " ")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_Score_UnconfiguredBaseURL(t *testing.T) {
	t.Parallel()

	client := newTestClient("", 0)

	_, err := client.Score(context.Background(), match.LeagueNBA, "401585601")
	if !errors.Is(err, usecase.ErrPredictionUnavailable) {
		t.Fatalf("expected ErrPredictionUnavailable, got %v", err)
	}
}

func TestClient_Score_ServiceErrorPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "model cold start"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 0)

	_, err := client.Score(context.Background(), match.LeagueNBA, "401585601")
	if !errors.Is(err, usecase.ErrPredictionUnavailable) {
		t.Fatalf("expected ErrPredictionUnavailable, got %v", err)
	}
}

func TestClient_Score_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"prediction": {"match": "m", "predictedWinner": "A", "confidence": 50}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 1)

	pred, err := client.Score(context.Background(), match.LeagueNBA, "g1")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if pred.PredictedWinner != "A" {
		t.Fatalf("unexpected prediction: %+v", pred)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestClient_Score_NonRetryableStatus(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2)

	_, err := client.Score(context.Background(), match.LeagueNBA, "g1")
	if !errors.Is(err, usecase.ErrPredictionUnavailable) {
		t.Fatalf("expected ErrPredictionUnavailable, got %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("400 must not be retried, got %d attempts", got)
	}
}
