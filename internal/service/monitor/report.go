package monitor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Qiangs1023/finpulse/internal/schedule"
)

// DailyReportTask runs a full analysis cycle and pushes the morning
// briefing to every channel.
type DailyReportTask struct {
	analyzer Analyzer
	notifier Notifier
}

func NewDailyReportTask(analyzer Analyzer, notifier Notifier) schedule.Task {
	return &DailyReportTask{
		analyzer: analyzer,
		notifier: notifier,
	}
}

func (t *DailyReportTask) Run(ctx context.Context) error {
	res := t.analyzer.Analyze(ctx, "all")

	var sb strings.Builder
	sb.WriteString("🌅 每日财经晨报\n")
	sb.WriteString(res.Timestamp.Format("2006-01-02 15:04") + "\n\n")
	sb.WriteString(res.Summary)
	sb.WriteString("\n\n")
	sb.WriteString(res.Report)

	results := t.notifier.SendAll(ctx, sb.String())
	for name, r := range results {
		if !r.Success {
			return fmt.Errorf("daily report delivery failed on %s: %s", name, r.Detail)
		}
	}
	return nil
}

func (t *DailyReportTask) Name() string {
	return TaskDailyReport
}
