package monitor

import (
	"context"
	"strings"

	"github.com/Qiangs1023/finpulse/internal/schedule"
	"github.com/Qiangs1023/finpulse/internal/service/analyzer"
)

// AnomalyAlertTask scans the priced categories for threshold breaches and
// alerts only when there is something to say.
type AnomalyAlertTask struct {
	analyzer Analyzer
	notifier Notifier
}

func NewAnomalyAlertTask(analyzer Analyzer, notifier Notifier) schedule.Task {
	return &AnomalyAlertTask{
		analyzer: analyzer,
		notifier: notifier,
	}
}

func (t *AnomalyAlertTask) Run(ctx context.Context) error {
	events := t.analyzer.CheckAnomalies(ctx)
	if len(events) == 0 {
		return nil
	}
	t.notifier.SendAll(ctx, ComposeAlert(events))
	return nil
}

func (t *AnomalyAlertTask) Name() string {
	return TaskAnomalyAlert
}

// ComposeAlert renders one message for a batch of anomaly events.
func ComposeAlert(events []analyzer.AnomalyEvent) string {
	var sb strings.Builder
	sb.WriteString("⚠️ 市场异动预警:\n")
	for _, ev := range events {
		sb.WriteString("• " + ev.Message + "\n")
	}
	return sb.String()
}
