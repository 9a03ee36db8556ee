// Package news collects headlines from configured RSS feeds.
package news

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
)

const (
	defaultMaxAge  = 24 * time.Hour
	maxItemsPerRSS = 20
	maxSummaryLen  = 500
)

type Feed struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Category string `mapstructure:"category"`
}

type service struct {
	feeds  []Feed
	parser *gofeed.Parser
	maxAge time.Duration
	cache  *collector.SourceCache
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*service)

// WithMaxAge bounds how far back headlines are accepted.
func WithMaxAge(d time.Duration) Option {
	return func(s *service) {
		s.maxAge = d
	}
}

// WithCache suppresses headlines already seen within ttl, across cycles.
func WithCache(c *collector.SourceCache, ttl time.Duration) Option {
	return func(s *service) {
		s.cache = c
		s.ttl = ttl
	}
}

func NewCollector(feeds []Feed, opts ...Option) collector.Collector {
	svc := &service{
		feeds:  feeds,
		parser: gofeed.NewParser(),
		maxAge: defaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) Collect(ctx context.Context) ([]collector.DataPoint, error) {
	var results []collector.DataPoint
	for _, feed := range s.feeds {
		points, err := s.fetchFeed(ctx, feed)
		if err != nil {
			slog.Error("fetch rss failed", "feed", feedName(feed), "error", err)
			continue
		}
		results = append(results, points...)
	}
	return s.filterSeen(results), nil
}

// filterSeen drops headlines the cache has already handed out within ttl.
func (s *service) filterSeen(points []collector.DataPoint) []collector.DataPoint {
	if s.cache == nil {
		return points
	}
	s.cache.EvictOlderThan(s.ttl)

	items := make([]collector.Item, 0, len(points))
	for _, dp := range points {
		items = append(items, collector.Item{Title: dp.Str("title"), URL: dp.Str("link")})
	}
	fresh := make(map[string]struct{}, len(items))
	for _, it := range s.cache.FilterNew(items) {
		fresh[it.Key()] = struct{}{}
	}

	kept := points[:0]
	for i, dp := range points {
		key := items[i].Key()
		if key == "" {
			kept = append(kept, dp)
			continue
		}
		if _, ok := fresh[key]; ok {
			kept = append(kept, dp)
			delete(fresh, key)
		}
	}
	return kept
}

// CollectOne is not applicable to news feeds.
func (s *service) CollectOne(ctx context.Context, id string) (collector.DataPoint, bool, error) {
	return collector.DataPoint{}, false, nil
}

func (s *service) fetchFeed(ctx context.Context, feed Feed) ([]collector.DataPoint, error) {
	parsed, err := s.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-s.maxAge)
	var results []collector.DataPoint
	for i, entry := range parsed.Items {
		if i >= maxItemsPerRSS {
			break
		}

		pub := entry.PublishedParsed
		if pub != nil && pub.Before(cutoff) {
			continue
		}

		published := ""
		timestamp := s.now()
		if pub != nil {
			published = pub.Format(time.RFC3339)
			timestamp = *pub
		}

		results = append(results, collector.DataPoint{
			Timestamp: timestamp,
			Source:    feedName(feed),
			Kind:      collector.KindNews,
			Content: map[string]any{
				"title":     entry.Title,
				"link":      entry.Link,
				"summary":   truncate(entry.Description, maxSummaryLen),
				"published": published,
			},
			Metadata: map[string]any{"category": category(feed), "url": feed.URL},
		})
	}
	return results, nil
}

func feedName(feed Feed) string {
	if feed.Name != "" {
		return feed.Name
	}
	if u, err := url.Parse(feed.URL); err == nil {
		return u.Host
	}
	return feed.URL
}

func category(feed Feed) string {
	if feed.Category != "" {
		return feed.Category
	}
	return "general"
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}

// macro keywords tracked across headlines
var trendKeywords = []string{
	"降息", "加息", "利率", "央行", "通胀", "GDP", "贸易", "关税",
	"政策", "监管", "证监会", "美联储", "Fed", "利率决议", "经济数据",
	"就业", "PMI", "CPI", "PPI",
}

// KeywordTrends counts how often the tracked macro keywords appear in the
// given headlines and summaries.
func KeywordTrends(points []collector.DataPoint) map[string]int {
	keywords := make(map[string]int)
	for _, dp := range points {
		text := strings.ToLower(dp.Str("title") + " " + dp.Str("summary"))
		for _, kw := range trendKeywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				keywords[kw]++
			}
		}
	}
	return keywords
}
