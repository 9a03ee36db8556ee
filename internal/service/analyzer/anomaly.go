package analyzer

import (
	"fmt"
	"math"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
)

type AnomalyKind string

const (
	StockPriceAlert  AnomalyKind = "stock_price_alert"
	CryptoPriceAlert AnomalyKind = "crypto_price_alert"
)

// AnomalyEvent 价格异动事件
// Never mutated after creation; consumed once by the dispatcher.
type AnomalyEvent struct {
	Kind      AnomalyKind
	Symbol    string
	ChangePct float64
	Message   string
}

// pricedCategories share one threshold contract: stocks scan before
// crypto, adapter order preserved within each.
var pricedCategories = []struct {
	kind  collector.Kind
	alert AnomalyKind
}{
	{collector.KindStock, StockPriceAlert},
	{collector.KindCrypto, CryptoPriceAlert},
}

// Detect emits one event per priced data point whose absolute change
// reaches thresholdPct. The comparison is at-or-above, so a zero threshold
// alerts on every nonzero move. A missing change_pct counts as zero and
// never alerts.
func Detect(snapshot collector.Snapshot, thresholdPct float64) []AnomalyEvent {
	var events []AnomalyEvent
	for _, cat := range pricedCategories {
		for _, dp := range snapshot[cat.kind] {
			change := dp.Float("change_pct")
			abs := math.Abs(change)
			if abs == 0 || abs < thresholdPct {
				continue
			}
			symbol := dp.Str("symbol")
			events = append(events, AnomalyEvent{
				Kind:      cat.alert,
				Symbol:    symbol,
				ChangePct: change,
				Message:   fmt.Sprintf("%s 异动: %.2f%%", symbol, abs),
			})
		}
	}
	return events
}
