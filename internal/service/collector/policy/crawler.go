// Package policy collects official policy announcements from government
// sites (央行, 证监会, 发改委). Each crawler owns a dedup cache so an
// announcement is delivered once per TTL window.
package policy

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
)

const (
	defaultTTL = 24 * time.Hour

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Crawler fetches the currently listed announcements of one source,
// already filtered through its dedup cache.
type Crawler interface {
	Name() string
	Fetch(ctx context.Context) ([]collector.Item, error)
}

type baseCrawler struct {
	name  string
	url   string
	cache *collector.SourceCache
	cli   *http.Client
	ttl   time.Duration
}

type Option func(*baseCrawler)

func WithHTTPClient(cli *http.Client) Option {
	return func(b *baseCrawler) {
		b.cli = cli
	}
}

// WithURL overrides the listing page, mainly for tests.
func WithURL(url string) Option {
	return func(b *baseCrawler) {
		b.url = url
	}
}

// WithTTL sets how long a seen announcement stays suppressed.
func WithTTL(d time.Duration) Option {
	return func(b *baseCrawler) {
		b.ttl = d
	}
}

func newBase(name, url string, opts ...Option) baseCrawler {
	b := baseCrawler{
		name:  name,
		url:   url,
		cache: collector.NewSourceCache(),
		cli:   &http.Client{Timeout: 30 * time.Second},
		ttl:   defaultTTL,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *baseCrawler) Name() string {
	return b.name
}

func (b *baseCrawler) getDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := b.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[%s] fetch status %d", b.name, resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// filterNew ages out old cache entries, then drops already seen items.
func (b *baseCrawler) filterNew(items []collector.Item) []collector.Item {
	b.cache.EvictOlderThan(b.ttl)
	return b.cache.FilterNew(items)
}

var dateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{4}/\d{2}/\d{2}`)

func findDate(text string) string {
	return dateRe.FindString(text)
}

// absoluteURL resolves the hrefs found on government listing pages, which
// mix absolute links, host-absolute paths and page-relative paths.
func absoluteURL(pageURL, host, href string) string {
	switch {
	case strings.HasPrefix(href, "/"):
		return host + href
	case strings.HasPrefix(href, "./"):
		return pageURL[:strings.LastIndex(pageURL, "/")] + "/" + href[2:]
	case strings.HasPrefix(href, "../"):
		return host + "/" + strings.TrimLeft(href, "./")
	default:
		return href
	}
}
