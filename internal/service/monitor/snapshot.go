package monitor

import (
	"context"

	"github.com/Qiangs1023/finpulse/internal/schedule"
)

// MarketSnapshotTask pushes a lightweight digest of the current snapshot
// to every channel.
type MarketSnapshotTask struct {
	analyzer Analyzer
	notifier Notifier
}

func NewMarketSnapshotTask(analyzer Analyzer, notifier Notifier) schedule.Task {
	return &MarketSnapshotTask{
		analyzer: analyzer,
		notifier: notifier,
	}
}

func (t *MarketSnapshotTask) Run(ctx context.Context) error {
	t.notifier.SendAll(ctx, t.analyzer.Summarize(ctx, "all"))
	return nil
}

func (t *MarketSnapshotTask) Name() string {
	return TaskMarketSnapshot
}
