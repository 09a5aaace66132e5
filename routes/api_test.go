package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medbrain/config"
	"medbrain/controllers"
	"medbrain/models"
	"medbrain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestAPI wires the full router against an in-memory database and a
// stubbed analysis service, mirroring the wiring in cmd/main.go.
func newTestAPI(t *testing.T, aiURL string) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.DailyMetric{},
		&models.AIInsight{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.UserDevice{},
	))

	cfg := &config.Config{
		Env:              "test",
		JWTSecret:        "api-test-secret",
		JWTExpiry:        time.Hour,
		AIServiceURL:     aiURL,
		AIServiceTimeout: 5 * time.Second,
	}
	log := zap.NewNop().Sugar()

	users := services.NewUserService(db)
	auth := services.NewAuthService(db)
	metrics := services.NewMetricService(db, log)
	insights := services.NewInsightService(db)
	ai := services.NewAIClient(cfg.AIServiceURL, cfg.AIServiceTimeout, log)
	hub := services.NewRealtimeHub()
	notifier := services.NewNotifier(hub, nil, log)
	analysis := services.NewAnalysisService(metrics, insights, ai, notifier, log)
	community := services.NewCommunityService(db)

	router := SetupRouter(cfg, Controllers{
		Health:    controllers.NewHealthController(ai),
		Auth:      controllers.NewAuthController(auth, users, cfg),
		Users:     controllers.NewUserController(users),
		Metrics:   controllers.NewMetricsController(metrics, users),
		AI:        controllers.NewAIController(analysis, insights, users),
		Community: controllers.NewCommunityController(community, users),
		Devices:   controllers.NewDeviceController(nil),
		Realtime:  controllers.NewRealtimeController(hub),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

func doJSON(t *testing.T, method, url, token, body string) (int, apiEnvelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestColdStartJourney(t *testing.T) {
	aiStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			UserID  string           `json:"user_id"`
			Metrics []map[string]any `json:"metrics"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Len(t, payload.Metrics, 5)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"phase":0,"confidence":0.3,"suggestions":["Keep logging daily"],"stats":{"days_analyzed":5}}`)
	}))
	defer aiStub.Close()

	srv := newTestAPI(t, aiStub.URL)

	// Sign up and pull the token plus public id out of the response.
	status, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "",
		`{"email":"journey@example.com","password":"password123","username":"journeyer"}`)
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)

	var signup struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &signup))
	require.NotEmpty(t, signup.Token)
	require.NotEmpty(t, signup.User.ID)

	// Five distinct days of metrics, each a fresh row. Oldest first.
	days := make([]string, 0, 5)
	for back := 5; back >= 1; back-- {
		days = append(days, time.Now().AddDate(0, 0, -back).Format("2006-01-02"))
	}
	for i, day := range days {
		body := fmt.Sprintf(
			`{"userId":%q,"date":%q,"sleepStart":"23:00","sleepEnd":"07:00","screenTime":4.5,"activityMinutes":30}`,
			signup.User.ID, day)
		status, env = doJSON(t, http.MethodPost, srv.URL+"/api/metrics/daily", signup.Token, body)
		require.Equal(t, http.StatusCreated, status, "day %d", i)
		require.True(t, env.Success)
	}

	// Resubmitting a day overwrites instead of duplicating.
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/metrics/daily", signup.Token,
		fmt.Sprintf(`{"userId":%q,"date":%q,"sleepStart":"22:30","sleepEnd":"06:30","screenTime":2,"activityMinutes":60}`, signup.User.ID, days[2]))
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, http.MethodGet,
		srv.URL+"/api/metrics/history?userId="+signup.User.ID+"&days=30", signup.Token, "")
	require.Equal(t, http.StatusOK, status)

	var history struct {
		DaysReturned int `json:"days_returned"`
		Metrics      []struct {
			Date          string   `json:"date"`
			SleepDuration *float64 `json:"sleep_duration"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, 5, history.DaysReturned)
	require.Len(t, history.Metrics, 5)
	assert.Equal(t, days[0], history.Metrics[0].Date)
	require.NotNil(t, history.Metrics[0].SleepDuration)
	assert.InDelta(t, 8.0, *history.Metrics[0].SleepDuration, 0.001)

	// Five days of data lands in the earliest analysis phase.
	status, env = doJSON(t, http.MethodPost, srv.URL+"/api/ai/analyze", signup.Token,
		fmt.Sprintf(`{"userId":%q}`, signup.User.ID))
	require.Equal(t, http.StatusOK, status)

	var analysis struct {
		Phase           int      `json:"phase"`
		ConfidenceLevel string   `json:"confidence_level"`
		Suggestions     []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &analysis))
	assert.Equal(t, 0, analysis.Phase)
	assert.Equal(t, "low", analysis.ConfidenceLevel)
	assert.Equal(t, []string{"Keep logging daily"}, analysis.Suggestions)

	// The stored insight is retrievable afterwards.
	status, _ = doJSON(t, http.MethodGet,
		srv.URL+"/api/ai/latest?userId="+signup.User.ID, signup.Token, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestAPI(t, "http://127.0.0.1:1")

	for _, path := range []string{
		"/api/metrics/history",
		"/api/ai/latest",
		"/api/community/posts",
		"/api/users/profile",
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestAnalyzeWithoutMetrics(t *testing.T) {
	srv := newTestAPI(t, "http://127.0.0.1:1")

	status, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "",
		`{"email":"empty@example.com","password":"password123","username":"emptyuser"}`)
	require.Equal(t, http.StatusCreated, status)

	var signup struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &signup))

	status, env = doJSON(t, http.MethodPost, srv.URL+"/api/ai/analyze", signup.Token,
		fmt.Sprintf(`{"userId":%q}`, signup.User.ID))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, *env.Error, "no metrics available")
}
