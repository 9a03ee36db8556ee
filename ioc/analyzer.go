package ioc

import (
	"github.com/spf13/viper"

	"github.com/Qiangs1023/finpulse/internal/service/analyzer"
	"github.com/Qiangs1023/finpulse/internal/service/collector"
	"github.com/Qiangs1023/finpulse/internal/service/llm"
)

func InitAnalyzer(orch *collector.Orchestrator, llmSvc llm.Service) *analyzer.Analyzer {
	viper.SetDefault("alerts.price_change_percent", 3.0)
	threshold := viper.GetFloat64("alerts.price_change_percent")
	return analyzer.NewAnalyzer(orch, llmSvc, threshold)
}
