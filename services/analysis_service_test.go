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
	"gorm.io/gorm"
)

func newAnalysisService(db *gorm.DB, aiURL string) *AnalysisService {
	log := zap.NewNop().Sugar()
	return NewAnalysisService(
		NewMetricService(db, log),
		NewInsightService(db),
		NewAIClient(aiURL, 2*time.Second, log),
		NewNotifier(NewRealtimeHub(), nil, log),
		log,
	)
}

func seedMetrics(t *testing.T, db *gorm.DB, user *models.User, days int) {
	t.Helper()
	svc := NewMetricService(db, zap.NewNop().Sugar())
	for i := 0; i < days; i++ {
		_, _, err := svc.Upsert(context.Background(), user.ID,
			time.Now().AddDate(0, 0, -i), strptr("23:00"), strptr("07:00"), 3.0, 40)
		require.NoError(t, err)
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	seedMetrics(t, db, user, 5)

	var received analysisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"phase":       0,
			"confidence":  0.35,
			"suggestions": []string{"Keep logging daily to unlock personalized insights"},
			"stats":       map[string]any{"days_of_data": 5},
		})
	}))
	defer srv.Close()

	svc := newAnalysisService(db, srv.URL)
	out, err := svc.Analyze(context.Background(), user)
	require.NoError(t, err)

	// five days of data reads as phase 0 on both sides
	assert.Equal(t, user.PublicID, received.UserID)
	assert.Len(t, received.Metrics, 5)
	assert.Equal(t, 0, out.Phase)
	assert.Equal(t, "low", out.ConfidenceLevel)
	assert.NotEmpty(t, out.PhaseDescription)
	assert.GreaterOrEqual(t, out.AnalysisDurationMs, int64(0))

	// the run persisted exactly one insight, retrievable unchanged
	latest, err := NewInsightService(db).Latest(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, out.InsightID, latest.ID)
	assert.Equal(t, 0, latest.Phase)
	assert.InDelta(t, 0.35, latest.Confidence, 0.001)
}

func TestAnalyzeServiceDownPersistsNothing(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	seedMetrics(t, db, user, 5)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	svc := newAnalysisService(db, url)
	_, err := svc.Analyze(context.Background(), user)
	assert.ErrorIs(t, err, ErrAIServiceUnavailable)

	var count int64
	require.NoError(t, db.Model(&models.AIInsight{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count, "a failed analysis must not persist an insight")
}

func TestAnalyzeBadResponsePersistsNothing(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)
	seedMetrics(t, db, user, 3)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"phase":42,"confidence":0.5,"suggestions":[],"stats":{}}`))
	}))
	defer srv.Close()

	svc := newAnalysisService(db, srv.URL)
	_, err := svc.Analyze(context.Background(), user)
	assert.ErrorIs(t, err, ErrAIServiceBadResponse)

	var count int64
	require.NoError(t, db.Model(&models.AIInsight{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAnalyzeNoData(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db)

	svc := newAnalysisService(db, "http://localhost:0")
	_, err := svc.Analyze(context.Background(), user)
	assert.ErrorIs(t, err, ErrNoMetricData)
}
