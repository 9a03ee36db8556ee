package ioc

import (
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/spf13/viper"

	"github.com/Qiangs1023/finpulse/internal/service/collector"
	"github.com/Qiangs1023/finpulse/internal/service/collector/crypto"
	"github.com/Qiangs1023/finpulse/internal/service/collector/news"
	"github.com/Qiangs1023/finpulse/internal/service/collector/policy"
	"github.com/Qiangs1023/finpulse/internal/service/collector/stock"
)

func InitOrchestrator(binanceCli *binance.Client) *collector.Orchestrator {
	type Config struct {
		Markets struct {
			Stocks []stock.Config  `mapstructure:"stocks"`
			Crypto []crypto.Config `mapstructure:"crypto"`
		} `mapstructure:"markets"`
		News struct {
			RSS []news.Feed `mapstructure:"rss"`
		} `mapstructure:"news"`
		Policy struct {
			Crawlers []policy.Config `mapstructure:"crawlers"`
		} `mapstructure:"policy"`
		Cache struct {
			TTLHours int `mapstructure:"ttl_hours"`
		} `mapstructure:"cache"`
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		panic(err)
	}

	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	orch := collector.NewOrchestrator()
	orch.Register(collector.KindStock, stock.NewCollector(cfg.Markets.Stocks))
	orch.Register(collector.KindCrypto, crypto.NewCollector(binanceCli, cfg.Markets.Crypto))
	orch.Register(collector.KindNews, news.NewCollector(cfg.News.RSS,
		news.WithCache(collector.NewSourceCache(), ttl)))
	orch.Register(collector.KindPolicy, policy.NewCollector(cfg.Policy.Crawlers,
		policy.WithTTL(ttl)))
	return orch
}
