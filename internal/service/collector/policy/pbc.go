package policy

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
)

const pbcHost = "http://www.pbc.gov.cn"

// pbcCrawler 抓取央行货币政策公告
type pbcCrawler struct {
	baseCrawler
}

func NewPBCCrawler(opts ...Option) Crawler {
	return &pbcCrawler{
		baseCrawler: newBase("央行公告", pbcHost+"/zhengcehuobisi/125147/125153/index.html", opts...),
	}
}

func (c *pbcCrawler) Fetch(ctx context.Context) ([]collector.Item, error) {
	doc, err := c.getDocument(ctx)
	if err != nil {
		return nil, err
	}
	return c.filterNew(c.parse(doc)), nil
}

func (c *pbcCrawler) parse(doc *goquery.Document) []collector.Item {
	var items []collector.Item
	doc.Find("ul.list li a, div.newslist a, table a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= 20 {
			return false
		}
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return true
		}
		href, _ := sel.Attr("href")
		if href == "" {
			return true
		}

		items = append(items, collector.Item{
			Title:     title,
			URL:       absoluteURL(c.url, pbcHost, href),
			Source:    c.name,
			Category:  "货币政策",
			Published: findDate(sel.Parent().Text()),
			Timestamp: time.Now(),
		})
		return true
	})
	return items
}

// openMarketCrawler 抓取央行公开市场操作公告
type openMarketCrawler struct {
	baseCrawler
}

func NewOpenMarketCrawler(opts ...Option) Crawler {
	return &openMarketCrawler{
		baseCrawler: newBase("公开市场操作", pbcHost+"/zhengcehuobisi/125147/125151/index.html", opts...),
	}
}

func (c *openMarketCrawler) Fetch(ctx context.Context) ([]collector.Item, error) {
	doc, err := c.getDocument(ctx)
	if err != nil {
		return nil, err
	}
	return c.filterNew(c.parse(doc)), nil
}

func (c *openMarketCrawler) parse(doc *goquery.Document) []collector.Item {
	var items []collector.Item
	doc.Find("ul.list li a, div.newslist a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= 10 {
			return false
		}
		title := strings.TrimSpace(sel.Text())
		if title == "" || !strings.Contains(title, "公开市场") {
			return true
		}
		href, _ := sel.Attr("href")
		if href == "" {
			return true
		}

		items = append(items, collector.Item{
			Title:     title,
			URL:       absoluteURL(c.url, pbcHost, href),
			Source:    c.name,
			Category:  "公开市场",
			Timestamp: time.Now(),
		})
		return true
	})
	return items
}
