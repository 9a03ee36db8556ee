package policy

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
)

const (
	csrcHost = "http://www.csrc.gov.cn"
	ndrcHost = "https://www.ndrc.gov.cn"
)

// csrcCrawler 抓取证监会政策法规、监管公告
type csrcCrawler struct {
	baseCrawler
}

func NewCSRCCrawler(opts ...Option) Crawler {
	return &csrcCrawler{
		baseCrawler: newBase("证监会公告", csrcHost+"/csrc/c100028/common_list.shtml", opts...),
	}
}

func (c *csrcCrawler) Fetch(ctx context.Context) ([]collector.Item, error) {
	doc, err := c.getDocument(ctx)
	if err != nil {
		return nil, err
	}
	return c.filterNew(c.parse(doc)), nil
}

func (c *csrcCrawler) parse(doc *goquery.Document) []collector.Item {
	var items []collector.Item
	doc.Find("ul.list li a, div.list a, table a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
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
			URL:       absoluteURL(c.url, csrcHost, href),
			Source:    c.name,
			Category:  "监管政策",
			Published: findDate(sel.Parent().Text()),
			Timestamp: time.Now(),
		})
		return true
	})
	return items
}

// ndrcCrawler 抓取发改委宏观经济政策公告
type ndrcCrawler struct {
	baseCrawler
}

func NewNDRCCrawler(opts ...Option) Crawler {
	return &ndrcCrawler{
		baseCrawler: newBase("发改委公告", ndrcHost+"/xxgk/zcfb/index.html", opts...),
	}
}

func (c *ndrcCrawler) Fetch(ctx context.Context) ([]collector.Item, error) {
	doc, err := c.getDocument(ctx)
	if err != nil {
		return nil, err
	}
	return c.filterNew(c.parse(doc)), nil
}

func (c *ndrcCrawler) parse(doc *goquery.Document) []collector.Item {
	var items []collector.Item
	doc.Find("ul.list li a, div.file-list a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= 15 {
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
			URL:       absoluteURL(c.url, ndrcHost, href),
			Source:    c.name,
			Category:  "宏观政策",
			Timestamp: time.Now(),
		})
		return true
	})
	return items
}
