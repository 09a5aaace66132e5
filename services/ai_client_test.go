package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medbrain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testMetrics(n int) []models.DailyMetric {
	metrics := make([]models.DailyMetric, 0, n)
	for i := n - 1; i >= 0; i-- { // reverse order on purpose: the client must sort
		sleep := 7.5
		metrics = append(metrics, models.DailyMetric{
			Date:            time.Now().AddDate(0, 0, -i),
			SleepDuration:   &sleep,
			ScreenTime:      3.2,
			ActivityMinutes: 45,
		})
	}
	return metrics
}

func TestAIClientAnalyze(t *testing.T) {
	var received analysisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analyze", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"phase":       1,
			"confidence":  0.72,
			"suggestions": []string{"Wind down earlier", "Cut evening screen time"},
			"stats":       map[string]any{"mean_sleep": 7.5},
		})
	}))
	defer srv.Close()

	client := NewAIClient(srv.URL, 5*time.Second, zap.NewNop().Sugar())
	result, err := client.Analyze(context.Background(), "user-1", testMetrics(10))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Phase)
	assert.InDelta(t, 0.72, result.Confidence, 0.001)
	assert.Equal(t, []string{"Wind down earlier", "Cut evening screen time"}, result.Suggestions)
	assert.JSONEq(t, `{"mean_sleep":7.5}`, string(result.Stats))

	// payload contract
	assert.Equal(t, "user-1", received.UserID)
	require.Len(t, received.Metrics, 10)
	for i := 1; i < len(received.Metrics); i++ {
		assert.LessOrEqual(t, received.Metrics[i-1].Date, received.Metrics[i].Date, "metrics must be ascending")
	}
}

func TestAIClientAnalyzeNoMetrics(t *testing.T) {
	client := NewAIClient("http://localhost:0", time.Second, zap.NewNop().Sugar())
	_, err := client.Analyze(context.Background(), "user-1", nil)
	assert.Error(t, err)
}

func TestAIClientRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"model not loaded"}`))
	}))
	defer srv.Close()

	client := NewAIClient(srv.URL, time.Second, zap.NewNop().Sugar())
	_, err := client.Analyze(context.Background(), "user-1", testMetrics(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
	assert.Contains(t, err.Error(), "500")
}

func TestAIClientUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	client := NewAIClient(url, time.Second, zap.NewNop().Sugar())
	_, err := client.Analyze(context.Background(), "user-1", testMetrics(3))
	assert.ErrorIs(t, err, ErrAIServiceUnavailable)
}

func TestAIClientBadResponse(t *testing.T) {
	cases := []string{
		`not json at all`,
		`{"phase":7,"confidence":0.5,"suggestions":[],"stats":{}}`,
		`{"phase":1,"confidence":1.4,"suggestions":[],"stats":{}}`,
		`{"phase":1,"confidence":0.5,"stats":{}}`,
	}
	for _, body := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		client := NewAIClient(srv.URL, time.Second, zap.NewNop().Sugar())
		_, err := client.Analyze(context.Background(), "user-1", testMetrics(3))
		assert.ErrorIs(t, err, ErrAIServiceBadResponse, "body %q", body)
		srv.Close()
	}
}

func TestAIClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewAIClient(srv.URL, time.Second, zap.NewNop().Sugar())
	assert.True(t, client.Health(context.Background()))

	srv.Close()
	assert.False(t, client.Health(context.Background()))
}

func TestPhaseDescription(t *testing.T) {
	assert.Contains(t, PhaseDescription(0), "general health patterns")
	assert.Contains(t, PhaseDescription(1), "Refining")
	assert.Contains(t, PhaseDescription(2), "Highly personalized")
	assert.Equal(t, "Unknown phase", PhaseDescription(9))
}

func TestConfidenceLevel(t *testing.T) {
	assert.Equal(t, "high", ConfidenceLevel(0.8))
	assert.Equal(t, "high", ConfidenceLevel(0.95))
	assert.Equal(t, "medium", ConfidenceLevel(0.5))
	assert.Equal(t, "medium", ConfidenceLevel(0.79))
	assert.Equal(t, "low", ConfidenceLevel(0.49))
	assert.Equal(t, "low", ConfidenceLevel(0))
}
