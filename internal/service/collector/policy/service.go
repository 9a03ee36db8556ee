package policy

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
)

type Config struct {
	Type    string `mapstructure:"type"`
	Enabled *bool  `mapstructure:"enabled"` // nil means enabled
}

// crawlerFactories is the static registry keyed by the config type tag.
var crawlerFactories = map[string]func(opts ...Option) Crawler{
	"pbc":             NewPBCCrawler,
	"pbc_open_market": NewOpenMarketCrawler,
	"csrc":            NewCSRCCrawler,
	"ndrc":            NewNDRCCrawler,
}

type service struct {
	crawlers []Crawler
}

// NewCollector builds the announcement collector from configuration. With
// no crawlers configured, the full default set is used.
func NewCollector(cfgs []Config, opts ...Option) collector.Collector {
	var crawlers []Crawler
	for _, cfg := range cfgs {
		if cfg.Enabled != nil && !*cfg.Enabled {
			continue
		}
		factory, ok := crawlerFactories[cfg.Type]
		if !ok {
			slog.Warn("unknown policy crawler type", "type", cfg.Type)
			continue
		}
		crawlers = append(crawlers, factory(opts...))
	}

	if len(crawlers) == 0 {
		crawlers = []Crawler{
			NewPBCCrawler(opts...),
			NewOpenMarketCrawler(opts...),
			NewCSRCCrawler(opts...),
			NewNDRCCrawler(opts...),
		}
	}
	return &service{crawlers: crawlers}
}

// NewCollectorWithCrawlers wires an explicit crawler set, mainly for tests.
func NewCollectorWithCrawlers(crawlers ...Crawler) collector.Collector {
	return &service{crawlers: crawlers}
}

// Collect fans out to all crawlers concurrently. A failing crawler only
// loses its own announcements.
func (s *service) Collect(ctx context.Context) ([]collector.DataPoint, error) {
	results := make([][]collector.Item, len(s.crawlers))
	var wg sync.WaitGroup
	for i, c := range s.crawlers {
		wg.Add(1)
		go func(i int, c Crawler) {
			defer wg.Done()
			items, err := c.Fetch(ctx)
			if err != nil {
				slog.Error("policy crawler failed", "crawler", c.Name(), "error", err)
				return
			}
			results[i] = items
		}(i, c)
	}
	wg.Wait()

	var points []collector.DataPoint
	for _, items := range results {
		for _, it := range items {
			points = append(points, toDataPoint(it))
		}
	}
	return points, nil
}

// CollectOne is not applicable to announcement crawlers.
func (s *service) CollectOne(ctx context.Context, id string) (collector.DataPoint, bool, error) {
	return collector.DataPoint{}, false, nil
}

func toDataPoint(it collector.Item) collector.DataPoint {
	return collector.DataPoint{
		Timestamp: it.Timestamp,
		Source:    it.Source,
		Kind:      collector.KindPolicy,
		Content: map[string]any{
			"title":     it.Title,
			"link":      it.URL,
			"summary":   "",
			"published": it.Published,
		},
		Metadata: map[string]any{"category": it.Category, "url": it.URL},
	}
}
