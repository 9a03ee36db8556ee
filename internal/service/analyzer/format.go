package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
)

func formatStocks(points []collector.DataPoint) string {
	if len(points) == 0 {
		return "暂无股票数据"
	}
	lines := make([]string, 0, len(points)+1)
	lines = append(lines, "Stock Market Data:")
	for _, dp := range points {
		lines = append(lines, fmt.Sprintf("  %s %s: %.2f (%+.2f%%) Vol: %.0f",
			dp.Str("symbol"), dp.Str("name"), dp.Float("price"), dp.Float("change_pct"), dp.Float("volume")))
	}
	return strings.Join(lines, "\n")
}

func formatCrypto(points []collector.DataPoint) string {
	if len(points) == 0 {
		return "暂无加密货币数据"
	}
	lines := make([]string, 0, len(points)+1)
	lines = append(lines, "Cryptocurrency Market Data:")
	for _, dp := range points {
		arrow := "📈"
		if dp.Float("change_pct") < 0 {
			arrow = "📉"
		}
		lines = append(lines, fmt.Sprintf("  %s: $%.2f %s %.2f%% (Vol: $%.0f)",
			dp.Str("symbol"), dp.Float("price"), arrow, dp.Float("change_pct"), dp.Float("quote_volume")))
	}
	return strings.Join(lines, "\n")
}

func formatNews(points []collector.DataPoint) string {
	lines := []string{"Recent News Headlines:"}

	sorted := make([]collector.DataPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	seen := make(map[string]struct{})
	for _, dp := range sorted {
		if len(lines) > 30 {
			break
		}
		title := dp.Str("title")
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		lines = append(lines, fmt.Sprintf("  [%s] %s: %s",
			dp.Source, dp.Timestamp.Format("01-02 15:04"), title))
	}
	return strings.Join(lines, "\n")
}

func formatPolicy(points []collector.DataPoint) string {
	lines := []string{"## 政策公告", ""}
	if len(points) == 0 {
		lines = append(lines, "暂无最新政策公告")
		return strings.Join(lines, "\n")
	}

	sorted := make([]collector.DataPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	for i, dp := range sorted {
		if i >= 15 {
			break
		}
		date := dp.Str("published")
		if date == "" {
			date = dp.Timestamp.Format("01-02 15:04")
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s: %s", dp.Source, date, dp.Str("title")))
	}
	return strings.Join(lines, "\n")
}

// topKeywords orders keywords by count desc, ties broken by name so the
// output is deterministic.
func topKeywords(keywords map[string]int, n int) []string {
	type kv struct {
		key   string
		count int
	}
	pairs := lo.MapToSlice(keywords, func(k string, v int) kv { return kv{key: k, count: v} })
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return lo.Map(pairs, func(p kv, _ int) string { return p.key })
}

// SystemPrompt is the report model's standing instruction.
const SystemPrompt = "你是一个专业的金融市场分析师，擅长分析市场数据、宏观政策影响，并预测市场波动。请用中文回答，保持专业、客观、简洁。"

func buildPrompt(snapshot collector.Snapshot, keywords map[string]int) string {
	hot := lo.Map(topKeywords(keywords, 10), func(kw string, _ int) string {
		return fmt.Sprintf("%s(%d)", kw, keywords[kw])
	})

	return fmt.Sprintf(`你是一个专业的金融市场分析师。请基于以下数据进行分析，预测市场波动趋势。

## 股票市场数据
%s

## 加密货币市场数据
%s

## 最新财经新闻
%s

%s

## 新闻关键词趋势
%s

请提供以下分析:
1. **市场概况**: 当前市场整体表现
2. **政策影响**: 分析宏观政策对市场的潜在影响
3. **情绪分析**: 市场情绪判断（贪婪/恐惧/中性）
4. **风险预警**: 可能的风险因素
5. **短期预测**: 未来1-3天的市场走势预测
6. **操作建议**: 基于分析的投资建议

请用中文回答，保持专业和客观。
`,
		formatStocks(snapshot[collector.KindStock]),
		formatCrypto(snapshot[collector.KindCrypto]),
		formatNews(snapshot[collector.KindNews]),
		formatPolicy(snapshot[collector.KindPolicy]),
		strings.Join(hot, ", "))
}

// Summary renders the compact per-cycle digest.
func Summary(snapshot collector.Snapshot, keywords map[string]int) string {
	lines := []string{"📊 Market Snapshot"}

	if stocks := snapshot[collector.KindStock]; len(stocks) > 0 {
		up := lo.CountBy(stocks, func(dp collector.DataPoint) bool { return dp.Float("change_pct") > 0 })
		down := lo.CountBy(stocks, func(dp collector.DataPoint) bool { return dp.Float("change_pct") < 0 })
		lines = append(lines, fmt.Sprintf("📈 Stocks: %d up, %d down", up, down))
	}

	if crypto := snapshot[collector.KindCrypto]; len(crypto) > 0 {
		up := lo.CountBy(crypto, func(dp collector.DataPoint) bool { return dp.Float("change_pct") > 0 })
		down := lo.CountBy(crypto, func(dp collector.DataPoint) bool { return dp.Float("change_pct") < 0 })
		lines = append(lines, fmt.Sprintf("₿ Crypto: %d up, %d down", up, down))
	}

	if len(keywords) > 0 {
		lines = append(lines, fmt.Sprintf("📰 Hot topics: %s", strings.Join(topKeywords(keywords, 5), ", ")))
	}

	return strings.Join(lines, "\n")
}
