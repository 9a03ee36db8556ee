package collector

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

// Orchestrator fans out to the configured collectors and assembles a
// Snapshot. A failing collector degrades to an empty category, never the
// whole call.
type Orchestrator struct {
	collectors map[Kind]Collector
}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		collectors: make(map[Kind]Collector),
	}
}

func (o *Orchestrator) Register(kind Kind, c Collector) {
	o.collectors[kind] = c
}

// Registered reports whether a collector is configured for kind.
func (o *Orchestrator) Registered(kind Kind) bool {
	_, ok := o.collectors[kind]
	return ok
}

// CollectAll runs the collectors for the selected kinds concurrently and
// assembles the results in selector order regardless of completion order.
// Kinds without a configured collector are omitted from the snapshot. A
// collector error or panic leaves its category present but empty; no other
// category is affected.
func (o *Orchestrator) CollectAll(ctx context.Context, kinds ...Kind) Snapshot {
	selected := lo.Filter(lo.Uniq(kinds), func(k Kind, _ int) bool {
		if _, ok := o.collectors[k]; !ok {
			slog.Debug("no collector configured", "kind", k)
			return false
		}
		return true
	})

	results := make([][]DataPoint, len(selected))
	var wg sync.WaitGroup
	for i, kind := range selected {
		wg.Add(1)
		go func(i int, kind Kind) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("collector panicked", "kind", kind, "panic", r)
					results[i] = nil
				}
			}()
			points, err := o.collectors[kind].Collect(ctx)
			if err != nil {
				slog.Error("collect failed", "kind", kind, "error", err)
				return
			}
			results[i] = points
		}(i, kind)
	}
	wg.Wait()

	snapshot := make(Snapshot, len(selected))
	for i, kind := range selected {
		if results[i] == nil {
			results[i] = []DataPoint{}
		}
		snapshot[kind] = results[i]
	}
	return snapshot
}
