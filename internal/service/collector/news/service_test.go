package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
)

func rssBody(pubDate time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>财经快讯</title>
<item>
  <title>央行宣布降息10个基点</title>
  <link>http://example.com/news/1</link>
  <description>中国人民银行今日宣布下调政策利率。</description>
  <pubDate>%s</pubDate>
</item>
<item>
  <title>美联储维持利率不变</title>
  <link>http://example.com/news/2</link>
  <description>Fed官员表示通胀仍有粘性。</description>
  <pubDate>%s</pubDate>
</item>
</channel></rss>`, pubDate.Format(time.RFC1123Z), pubDate.Format(time.RFC1123Z))
}

func TestCollectParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(time.Now()))
	}))
	defer srv.Close()

	svc := NewCollector([]Feed{{Name: "测试源", URL: srv.URL, Category: "macro"}})

	points, err := svc.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, collector.KindNews, points[0].Kind)
	assert.Equal(t, "测试源", points[0].Source)
	assert.Equal(t, "央行宣布降息10个基点", points[0].Str("title"))
	assert.Equal(t, "http://example.com/news/1", points[0].Str("link"))
	assert.Equal(t, "macro", points[0].Metadata["category"])
}

func TestCollectSkipsStaleEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(time.Now().Add(-48*time.Hour)))
	}))
	defer srv.Close()

	svc := NewCollector([]Feed{{Name: "测试源", URL: srv.URL}}, WithMaxAge(24*time.Hour))

	points, err := svc.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestCollectIsolatesFailingFeed(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(time.Now()))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	svc := NewCollector([]Feed{
		{Name: "坏源", URL: bad.URL},
		{Name: "好源", URL: good.URL},
	})

	points, err := svc.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestKeywordTrends(t *testing.T) {
	points := []collector.DataPoint{
		{Content: map[string]any{"title": "央行降息落地", "summary": "市场预期利率继续下行"}},
		{Content: map[string]any{"title": "美联储官员谈利率", "summary": ""}},
		{Content: map[string]any{"title": "无关新闻", "summary": "体育赛事"}},
	}

	trends := KeywordTrends(points)

	assert.Equal(t, 2, trends["利率"])
	assert.Equal(t, 1, trends["降息"])
	assert.Equal(t, 1, trends["央行"])
	assert.NotContains(t, trends, "GDP")
}

func TestCollectSuppressesSeenHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody(time.Now()))
	}))
	defer srv.Close()

	svc := NewCollector([]Feed{{Name: "测试源", URL: srv.URL}},
		WithCache(collector.NewSourceCache(), time.Hour))

	points, err := svc.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, points, 2)

	// same feed again within the ttl: everything already seen
	points, err = svc.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, points)
}
