// Package crypto collects 24h ticker statistics from Binance.
package crypto

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/samber/lo"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
	"github.com/Qiangs1023/finpulse/pkg/decimalx"
)

type Config struct {
	Symbol string `mapstructure:"symbol"`
}

type service struct {
	cli     *binance.Client
	symbols []Config
}

func NewCollector(cli *binance.Client, symbols []Config) collector.Collector {
	return &service{
		cli:     cli,
		symbols: symbols,
	}
}

func (s *service) Collect(ctx context.Context) ([]collector.DataPoint, error) {
	results := make([]collector.DataPoint, 0, len(s.symbols))
	for _, cfg := range s.symbols {
		dp, ok, err := s.CollectOne(ctx, cfg.Symbol)
		if err != nil {
			slog.Error("collect crypto failed", "symbol", cfg.Symbol, "error", err)
			continue
		}
		if ok {
			results = append(results, dp)
		}
	}
	return results, nil
}

func (s *service) CollectOne(ctx context.Context, symbol string) (collector.DataPoint, bool, error) {
	cfg, ok := lo.Find(s.symbols, func(c Config) bool { return c.Symbol == symbol })
	if !ok {
		return collector.DataPoint{}, false, nil
	}

	// BTC/USDT in config, BTCUSDT on the wire
	pair := strings.ReplaceAll(cfg.Symbol, "/", "")
	stats, err := s.cli.NewListPriceChangeStatsService().Symbol(pair).Do(ctx)
	if err != nil {
		return collector.DataPoint{}, false, err
	}
	if len(stats) == 0 {
		return collector.DataPoint{}, false, nil
	}

	st := stats[0]
	content := map[string]any{
		"symbol":       cfg.Symbol,
		"price":        decimalx.FromStringOrZero(st.LastPrice).InexactFloat64(),
		"change_pct":   decimalx.FromStringOrZero(st.PriceChangePercent).InexactFloat64(),
		"volume":       decimalx.FromStringOrZero(st.Volume).InexactFloat64(),
		"quote_volume": decimalx.FromStringOrZero(st.QuoteVolume).InexactFloat64(),
		"high":         decimalx.FromStringOrZero(st.HighPrice).InexactFloat64(),
		"low":          decimalx.FromStringOrZero(st.LowPrice).InexactFloat64(),
		"bid":          decimalx.FromStringOrZero(st.BidPrice).InexactFloat64(),
		"ask":          decimalx.FromStringOrZero(st.AskPrice).InexactFloat64(),
	}
	return collector.DataPoint{
		Timestamp: time.Now(),
		Source:    "binance",
		Kind:      collector.KindCrypto,
		Content:   content,
		Metadata:  map[string]any{"symbol": cfg.Symbol, "exchange": "binance"},
	}, true, nil
}
