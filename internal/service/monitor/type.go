package monitor

import (
	"context"

	"github.com/Qiangs1023/finpulse/internal/service/analyzer"
	"github.com/Qiangs1023/finpulse/internal/service/notification"
)

const (
	TaskMarketSnapshot = "market_snapshot"
	TaskDailyReport    = "daily_report"
	TaskAnomalyAlert   = "anomaly_alert"
)

// Analyzer 行情分析接口
type Analyzer interface {
	Analyze(ctx context.Context, market string) analyzer.Result
	Summarize(ctx context.Context, market string) string
	CheckAnomalies(ctx context.Context) []analyzer.AnomalyEvent
}

type Notifier interface {
	SendAll(ctx context.Context, message string) map[string]notification.Result
}
