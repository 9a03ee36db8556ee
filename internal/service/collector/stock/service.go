// Package stock collects spot quotes through the Eastmoney push2 API,
// which covers A股, 港股 and 美股 behind one endpoint.
package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
)

const defaultBaseURL = "https://push2.eastmoney.com"

// quote fields: f43 price, f44 high, f45 low, f46 open, f47 volume,
// f48 amount, f57 code, f58 name, f60 prev close, f170 change pct.
const quoteFields = "f43,f44,f45,f46,f47,f48,f57,f58,f60,f170"

type Config struct {
	Symbol string `mapstructure:"symbol"`
	Name   string `mapstructure:"name"`
	Market string `mapstructure:"market"`
}

type service struct {
	stocks  []Config
	baseURL string
	cli     *http.Client
}

type Option func(*service)

func WithBaseURL(url string) Option {
	return func(s *service) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

func WithHTTPClient(cli *http.Client) Option {
	return func(s *service) {
		s.cli = cli
	}
}

func NewCollector(stocks []Config, opts ...Option) collector.Collector {
	svc := &service{
		stocks:  stocks,
		baseURL: defaultBaseURL,
		cli:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) Collect(ctx context.Context) ([]collector.DataPoint, error) {
	results := make([]collector.DataPoint, 0, len(s.stocks))
	for _, cfg := range s.stocks {
		dp, ok, err := s.CollectOne(ctx, cfg.Symbol)
		if err != nil {
			slog.Error("collect stock failed", "symbol", cfg.Symbol, "error", err)
			continue
		}
		if ok {
			results = append(results, dp)
		}
	}
	return results, nil
}

func (s *service) CollectOne(ctx context.Context, symbol string) (collector.DataPoint, bool, error) {
	cfg, ok := lo.Find(s.stocks, func(c Config) bool { return c.Symbol == symbol })
	if !ok {
		return collector.DataPoint{}, false, nil
	}

	q, err := s.fetchQuote(ctx, secID(cfg))
	if err != nil {
		return collector.DataPoint{}, false, err
	}

	content := map[string]any{
		"symbol":     cfg.Symbol,
		"name":       q.Name,
		"price":      q.Price,
		"change_pct": q.ChangePct,
		"volume":     q.Volume,
		"amount":     q.Amount,
		"high":       q.High,
		"low":        q.Low,
		"open":       q.Open,
		"prev_close": q.PrevClose,
	}
	return collector.DataPoint{
		Timestamp: time.Now(),
		Source:    "eastmoney",
		Kind:      collector.KindStock,
		Content:   content,
		Metadata:  map[string]any{"symbol": cfg.Symbol, "market": market(cfg)},
	}, true, nil
}

type quote struct {
	Price     float64 `json:"f43"`
	High      float64 `json:"f44"`
	Low       float64 `json:"f45"`
	Open      float64 `json:"f46"`
	Volume    float64 `json:"f47"`
	Amount    float64 `json:"f48"`
	Code      string  `json:"f57"`
	Name      string  `json:"f58"`
	PrevClose float64 `json:"f60"`
	ChangePct float64 `json:"f170"`
}

func (s *service) fetchQuote(ctx context.Context, secID string) (quote, error) {
	url := fmt.Sprintf("%s/api/qt/stock/get?invt=2&fltt=2&secid=%s&fields=%s", s.baseURL, secID, quoteFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return quote{}, err
	}

	resp, err := s.cli.Do(req)
	if err != nil {
		return quote{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return quote{}, fmt.Errorf("quote api status %d", resp.StatusCode)
	}

	var body struct {
		Data *quote `json:"data"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return quote{}, err
	}
	if body.Data == nil {
		return quote{}, fmt.Errorf("no quote data for %s", secID)
	}
	return *body.Data, nil
}

func market(cfg Config) string {
	if cfg.Market != "" {
		return cfg.Market
	}
	return "a股"
}

// secID maps a configured symbol to the push2 market-prefixed id,
// e.g. 600519.SH -> 1.600519, 00700.HK -> 116.00700, AAPL -> 105.AAPL.
func secID(cfg Config) string {
	code, suffix, _ := strings.Cut(cfg.Symbol, ".")
	switch strings.ToLower(market(cfg)) {
	case "港股", "hk":
		return "116." + code
	case "美股", "us":
		return "105." + code
	default:
		if strings.EqualFold(suffix, "SZ") || strings.HasPrefix(code, "0") || strings.HasPrefix(code, "3") {
			return "0." + code
		}
		return "1." + code
	}
}
