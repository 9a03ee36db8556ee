package collector

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind 数据类别
type Kind string

const (
	KindStock  Kind = "stock"
	KindCrypto Kind = "crypto"
	KindNews   Kind = "news"
	KindPolicy Kind = "policy"
)

// AllKinds returns the categories in canonical snapshot order.
func AllKinds() []Kind {
	return []Kind{KindStock, KindCrypto, KindNews, KindPolicy}
}

// DataPoint is one observation produced by a collector.
// It is never mutated after production.
type DataPoint struct {
	Timestamp time.Time
	Source    string
	Kind      Kind
	Content   map[string]any
	Metadata  map[string]any
}

// Float reads a numeric content field.
// Missing or non-numeric values count as zero.
func (d DataPoint) Float(key string) float64 {
	switch v := d.Content[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case decimal.Decimal:
		return v.InexactFloat64()
	}
	return 0
}

// Str reads a string content field, empty if absent.
func (d DataPoint) Str(key string) string {
	if v, ok := d.Content[key].(string); ok {
		return v
	}
	return ""
}

// Snapshot 一次采集周期的聚合结果
// Kinds absent from the selector are absent keys, which keeps
// "not requested" distinguishable from "requested but empty".
type Snapshot map[Kind][]DataPoint

type Collector interface {
	// Collect produces all currently available points. Per-item errors are
	// swallowed inside the collector; partial results are normal.
	Collect(ctx context.Context) ([]DataPoint, error)
	// CollectOne produces the point for a single id, ok=false if the id is
	// unknown to this collector.
	CollectOne(ctx context.Context, id string) (DataPoint, bool, error)
}

// Item is a crawled announcement before conversion to a DataPoint.
type Item struct {
	Title     string
	URL       string
	Source    string
	Category  string
	Published string
	Timestamp time.Time
}

// Key is the dedup identity: the URL if present, else the title.
func (it Item) Key() string {
	if it.URL != "" {
		return it.URL
	}
	return it.Title
}
