package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
	"github.com/Qiangs1023/finpulse/internal/service/collector/news"
	"github.com/Qiangs1023/finpulse/internal/service/llm"
)

// Analyzer drives one analysis cycle: fan out to the collectors, derive
// the digest and keyword trends, and ask the LLM for a report.
type Analyzer struct {
	orchestrator *collector.Orchestrator
	llmSvc       llm.Service
	thresholdPct float64
}

func NewAnalyzer(orchestrator *collector.Orchestrator, llmSvc llm.Service, thresholdPct float64) *Analyzer {
	return &Analyzer{
		orchestrator: orchestrator,
		llmSvc:       llmSvc,
		thresholdPct: thresholdPct,
	}
}

type Result struct {
	Timestamp time.Time
	Summary   string
	Report    string
	Snapshot  collector.Snapshot
	Keywords  map[string]int
}

// marketKinds maps the operator-facing market selector onto snapshot kinds.
func marketKinds(market string) []collector.Kind {
	switch market {
	case "stocks", "a股", "美股", "港股":
		return []collector.Kind{collector.KindStock}
	case "crypto":
		return []collector.Kind{collector.KindCrypto}
	case "news":
		return []collector.Kind{collector.KindNews}
	case "policy":
		return []collector.Kind{collector.KindPolicy}
	default:
		return collector.AllKinds()
	}
}

// CollectAll assembles the snapshot for the given market selector.
func (a *Analyzer) CollectAll(ctx context.Context, market string) collector.Snapshot {
	return a.orchestrator.CollectAll(ctx, marketKinds(market)...)
}

// Summarize builds the digest for the given market without touching the LLM.
func (a *Analyzer) Summarize(ctx context.Context, market string) string {
	snapshot := a.CollectAll(ctx, market)
	return Summary(snapshot, news.KeywordTrends(snapshot[collector.KindNews]))
}

// Analyze runs a full cycle. It always returns a complete result; a failed
// LLM call degrades the report, never the cycle.
func (a *Analyzer) Analyze(ctx context.Context, market string) Result {
	snapshot := a.CollectAll(ctx, market)
	keywords := news.KeywordTrends(snapshot[collector.KindNews])

	return Result{
		Timestamp: time.Now(),
		Summary:   Summary(snapshot, keywords),
		Report:    a.GenerateReport(ctx, buildPrompt(snapshot, keywords)),
		Snapshot:  snapshot,
		Keywords:  keywords,
	}
}

// GenerateReport asks the LLM for a market report. Failures degrade to an
// error-annotated report string.
func (a *Analyzer) GenerateReport(ctx context.Context, prompt string) string {
	answer, err := a.llmSvc.AskOnce(ctx, llm.Question{Content: prompt})
	if err != nil {
		slog.Error("generate report failed", "error", err)
		return fmt.Sprintf("[LLM Analysis Error]\nFailed to generate report: %v\n\nPrompt:\n%s", err, prompt)
	}
	return answer.Content
}

// CheckAnomalies collects the priced categories and scans them against the
// configured threshold.
func (a *Analyzer) CheckAnomalies(ctx context.Context) []AnomalyEvent {
	snapshot := a.orchestrator.CollectAll(ctx, collector.KindStock, collector.KindCrypto)
	return Detect(snapshot, a.thresholdPct)
}
