package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCollector struct {
	points []DataPoint
	err    error
	panics bool
	delay  time.Duration
}

func (s stubCollector) Collect(ctx context.Context) ([]DataPoint, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.panics {
		panic("collector exploded")
	}
	return s.points, s.err
}

func (s stubCollector) CollectOne(ctx context.Context, id string) (DataPoint, bool, error) {
	return DataPoint{}, false, nil
}

func point(kind Kind, symbol string) DataPoint {
	return DataPoint{
		Timestamp: time.Now(),
		Source:    "stub",
		Kind:      kind,
		Content:   map[string]any{"symbol": symbol},
	}
}

func TestCollectAllFailureIsolation(t *testing.T) {
	o := NewOrchestrator()
	o.Register(KindStock, stubCollector{points: []DataPoint{point(KindStock, "600519.SH")}})
	o.Register(KindCrypto, stubCollector{err: errors.New("exchange unreachable")})
	o.Register(KindNews, stubCollector{points: []DataPoint{point(KindNews, ""), point(KindNews, "")}})

	snapshot := o.CollectAll(context.Background(), KindStock, KindCrypto, KindNews)

	require.Len(t, snapshot, 3)
	assert.Len(t, snapshot[KindStock], 1)
	assert.Len(t, snapshot[KindNews], 2)

	crypto, ok := snapshot[KindCrypto]
	require.True(t, ok, "failed category is present, not missing")
	assert.Empty(t, crypto)
}

func TestCollectAllPanicIsolation(t *testing.T) {
	o := NewOrchestrator()
	o.Register(KindStock, stubCollector{panics: true})
	o.Register(KindCrypto, stubCollector{points: []DataPoint{point(KindCrypto, "BTC/USDT")}})

	snapshot := o.CollectAll(context.Background(), KindStock, KindCrypto)

	require.Contains(t, snapshot, KindStock)
	assert.Empty(t, snapshot[KindStock])
	assert.Len(t, snapshot[KindCrypto], 1)
}

func TestCollectAllSelectorOmitsUnrequested(t *testing.T) {
	o := NewOrchestrator()
	o.Register(KindStock, stubCollector{points: []DataPoint{point(KindStock, "AAPL")}})
	o.Register(KindCrypto, stubCollector{points: []DataPoint{point(KindCrypto, "BTC/USDT")}})

	snapshot := o.CollectAll(context.Background(), KindStock)

	assert.Contains(t, snapshot, KindStock)
	assert.NotContains(t, snapshot, KindCrypto, "not requested is distinguishable from requested but empty")
}

func TestCollectAllOmitsUnconfiguredKind(t *testing.T) {
	o := NewOrchestrator()
	o.Register(KindStock, stubCollector{})

	snapshot := o.CollectAll(context.Background(), KindStock, KindPolicy)

	assert.NotContains(t, snapshot, KindPolicy)
	assert.False(t, o.Registered(KindPolicy))
	assert.True(t, o.Registered(KindStock))
}

func TestCollectAllDeterministicDespiteCompletionOrder(t *testing.T) {
	o := NewOrchestrator()
	o.Register(KindStock, stubCollector{delay: 50 * time.Millisecond, points: []DataPoint{point(KindStock, "AAPL")}})
	o.Register(KindCrypto, stubCollector{points: []DataPoint{point(KindCrypto, "BTC/USDT")}})

	snapshot := o.CollectAll(context.Background(), KindStock, KindCrypto)

	require.Len(t, snapshot, 2)
	assert.Equal(t, "AAPL", snapshot[KindStock][0].Str("symbol"))
	assert.Equal(t, "BTC/USDT", snapshot[KindCrypto][0].Str("symbol"))
}

func TestCollectAllEmptySelector(t *testing.T) {
	o := NewOrchestrator()
	o.Register(KindStock, stubCollector{})

	snapshot := o.CollectAll(context.Background())
	assert.Empty(t, snapshot)
}

func TestDataPointFloat(t *testing.T) {
	dp := DataPoint{Content: map[string]any{"change_pct": 4.2, "volume": int64(100)}}
	assert.Equal(t, 4.2, dp.Float("change_pct"))
	assert.Equal(t, 100.0, dp.Float("volume"))
	assert.Zero(t, dp.Float("missing"))
}
