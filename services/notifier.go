package services

import (
	"fmt"

	"medbrain/models"

	"go.uber.org/zap"
)

// Notifier fans a new insight out to open websockets and push endpoints.
// Notification failures never fail the analysis that produced the insight.
type Notifier struct {
	rt  *RealtimeHub
	ps  *PushService
	log *zap.SugaredLogger
}

func NewNotifier(rt *RealtimeHub, ps *PushService, log *zap.SugaredLogger) *Notifier {
	return &Notifier{rt: rt, ps: ps, log: log}
}

func (n *Notifier) InsightCreated(user *models.User, out *AnalysisOutput) {
	if n.rt != nil {
		n.rt.BroadcastInsight(user.ID, map[string]any{
			"kind":    "insight.created",
			"insight": out,
		})
	}
	if n.ps != nil && user.NotifyInsights {
		body := "Your latest analysis is ready."
		if len(out.Suggestions) > 0 {
			body = out.Suggestions[0]
		}
		n.ps.PushToUser(user.ID, "New insight ready", body, map[string]string{
			"insightId": fmt.Sprintf("%d", out.InsightID),
			"phase":     fmt.Sprintf("%d", out.Phase),
		})
	}
}
