package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"syscall"
	"time"

	"medbrain/models"
	"medbrain/utils"

	"go.uber.org/zap"
)

var (
	ErrAIServiceUnavailable = errors.New("AI service is currently unavailable")
	ErrAIServiceTimeout     = errors.New("AI service did not respond")
	ErrAIServiceBadResponse = errors.New("AI service returned an invalid response")
)

// AIClient talks to the external analysis service. It owns the wire contract:
// payload shaping, timeout, and translation of transport failures into the
// domain errors above. It never computes analysis itself.
type AIClient struct {
	client  *http.Client
	baseURL string
	log     *zap.SugaredLogger
}

func NewAIClient(baseURL string, timeout time.Duration, log *zap.SugaredLogger) *AIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AIClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

type analysisMetric struct {
	Date            string  `json:"date"`
	SleepDuration   float64 `json:"sleep_duration"`
	ScreenTime      float64 `json:"screen_time"`
	ActivityMinutes int     `json:"activity_minutes"`
}

type analysisRequest struct {
	UserID  string           `json:"user_id"`
	Metrics []analysisMetric `json:"metrics"`
}

// AnalysisResult is the remote service's answer, validated before use.
type AnalysisResult struct {
	Phase       int             `json:"phase"`
	Confidence  float64         `json:"confidence"`
	Suggestions []string        `json:"suggestions"`
	Stats       json.RawMessage `json:"stats"`
}

func buildAnalysisRequest(userID string, metrics []models.DailyMetric) analysisRequest {
	sorted := make([]models.DailyMetric, len(metrics))
	copy(sorted, metrics)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := analysisRequest{UserID: userID, Metrics: make([]analysisMetric, 0, len(sorted))}
	for _, m := range sorted {
		var sleep float64
		if m.SleepDuration != nil {
			sleep = *m.SleepDuration
		}
		out.Metrics = append(out.Metrics, analysisMetric{
			Date:            utils.FormatDate(m.Date),
			SleepDuration:   sleep,
			ScreenTime:      m.ScreenTime,
			ActivityMinutes: m.ActivityMinutes,
		})
	}
	return out
}

func (a *AIClient) Analyze(ctx context.Context, userID string, metrics []models.DailyMetric) (*AnalysisResult, error) {
	if len(metrics) == 0 {
		return nil, errors.New("no metrics provided for analysis")
	}

	payload := buildAnalysisRequest(userID, metrics)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode analysis payload: %w", err)
	}

	a.log.Infof("sending %d days of metrics for user %s to %s", len(metrics), userID, a.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, a.translateTransportError(err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analysis response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp.StatusCode, respBytes)
	}

	var result AnalysisResult
	if err := json.Unmarshal(respBytes, &result); err != nil {
		a.log.Warnf("undecodable analysis response: %s", preview(respBytes))
		return nil, fmt.Errorf("%w: %v", ErrAIServiceBadResponse, err)
	}
	if err := validateAnalysisResult(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIServiceBadResponse, err)
	}
	return &result, nil
}

// Health reports whether the analysis service answers its /health endpoint.
func (a *AIClient) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (a *AIClient) translateTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		a.log.Warnf("no response from AI service at %s", a.baseURL)
		return ErrAIServiceTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrAIServiceTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		a.log.Warnf("connection refused by AI service at %s", a.baseURL)
		return ErrAIServiceUnavailable
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrAIServiceUnavailable
	}
	return fmt.Errorf("ai service request: %w", err)
}

func remoteError(status int, body []byte) error {
	var remote struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &remote) == nil {
		msg := remote.Message
		if msg == "" {
			msg = remote.Error
		}
		if msg != "" {
			return fmt.Errorf("AI service error (%d): %s", status, msg)
		}
	}
	return fmt.Errorf("AI service error (%d): %s", status, preview(body))
}

func validateAnalysisResult(r *AnalysisResult) error {
	if r.Phase < 0 || r.Phase > 2 {
		return fmt.Errorf("phase %d out of range", r.Phase)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %.3f out of range", r.Confidence)
	}
	if r.Suggestions == nil {
		return errors.New("suggestions missing")
	}
	return nil
}

func preview(b []byte) string {
	s := string(b)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// PhaseDescription maps a cold-start phase to the copy shown in the app.
func PhaseDescription(phase int) string {
	switch phase {
	case 0:
		return "Building your personalized profile based on general health patterns."
	case 1:
		return "Refining recommendations as we learn more about your habits."
	case 2:
		return "Highly personalized insights based on your unique patterns."
	default:
		return "Unknown phase"
	}
}

// ConfidenceLevel buckets a 0-1 score for display.
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "high"
	case confidence >= 0.5:
		return "medium"
	default:
		return "low"
	}
}
