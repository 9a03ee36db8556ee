package policy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
)

const pbcListHTML = `<html><body>
<ul class="list">
  <li><a href="/zhengcehuobisi/125147/125153/1.html">关于下调金融机构存款准备金率的公告</a> 2025-06-01</li>
  <li><a href="/zhengcehuobisi/125147/125153/2.html">中国人民银行公告〔2025〕第3号</a> 2025-06-02</li>
  <li><a href="">没有链接的条目</a></li>
</ul>
</body></html>`

func TestPBCCrawlerParseAndDedup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pbcListHTML)
	}))
	defer srv.Close()

	crawler := NewPBCCrawler(WithURL(srv.URL))

	items, err := crawler.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2, "entries without hrefs are skipped")

	assert.Equal(t, "关于下调金融机构存款准备金率的公告", items[0].Title)
	assert.Equal(t, "http://www.pbc.gov.cn/zhengcehuobisi/125147/125153/1.html", items[0].URL)
	assert.Equal(t, "央行公告", items[0].Source)
	assert.Equal(t, "货币政策", items[0].Category)
	assert.Equal(t, "2025-06-01", items[0].Published)

	// same listing on the next fetch: fully suppressed by the cache
	again, err := crawler.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestOpenMarketCrawlerFiltersByKeyword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<ul class="list">
<li><a href="/omo/1.html">公开市场业务交易公告</a></li>
<li><a href="/omo/2.html">其他无关公告</a></li>
</ul>`)
	}))
	defer srv.Close()

	crawler := NewOpenMarketCrawler(WithURL(srv.URL))

	items, err := crawler.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Title, "公开市场")
}

func TestCollectIsolatesFailingCrawler(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<ul class="list"><li><a href="/a/1.html">宏观政策文件</a></li></ul>`)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	svc := NewCollectorWithCrawlers(
		NewNDRCCrawler(WithURL(good.URL)),
		NewCSRCCrawler(WithURL(bad.URL)),
	)

	points, err := svc.Collect(context.Background())
	require.NoError(t, err, "one crawler failing never fails the collector")
	require.Len(t, points, 1)

	assert.Equal(t, collector.KindPolicy, points[0].Kind)
	assert.Equal(t, "发改委公告", points[0].Source)
	assert.Equal(t, "宏观政策文件", points[0].Str("title"))
}

func TestNewCollectorRegistry(t *testing.T) {
	disabled := false
	svc := NewCollector([]Config{
		{Type: "pbc"},
		{Type: "csrc", Enabled: &disabled},
		{Type: "unknown"},
	})

	crawlers := svc.(*service).crawlers
	require.Len(t, crawlers, 1)
	assert.Equal(t, "央行公告", crawlers[0].Name())
}

func TestNewCollectorDefaultsToFullSet(t *testing.T) {
	svc := NewCollector(nil)

	names := lo.Map(svc.(*service).crawlers, func(c Crawler, _ int) string { return c.Name() })
	assert.Equal(t, []string{"央行公告", "公开市场操作", "证监会公告", "发改委公告"}, names)
}
