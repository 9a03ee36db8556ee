package ioc

import (
	"github.com/spf13/viper"

	"github.com/Qiangs1023/finpulse/internal/schedule"
	"github.com/Qiangs1023/finpulse/internal/service/analyzer"
	"github.com/Qiangs1023/finpulse/internal/service/monitor"
	"github.com/Qiangs1023/finpulse/internal/service/notification"
)

var defaultCrons = map[string]string{
	monitor.TaskMarketSnapshot: "0 * * * *",
	monitor.TaskDailyReport:    "0 8 * * 1-5",
	monitor.TaskAnomalyAlert:   "*/5 * * * *",
}

func InitScheduler(anal *analyzer.Analyzer, dispatcher *notification.Dispatcher) *schedule.Scheduler {
	tasks := []schedule.Task{
		monitor.NewMarketSnapshotTask(anal, dispatcher),
		monitor.NewDailyReportTask(anal, dispatcher),
		monitor.NewAnomalyAlertTask(anal, dispatcher),
	}

	s := schedule.NewScheduler()
	for _, task := range tasks {
		cfg := schedule.TaskConfig{Enabled: true, Cron: defaultCrons[task.Name()]}
		if sub := viper.Sub("scheduler." + task.Name()); sub != nil {
			if err := sub.Unmarshal(&cfg); err != nil {
				panic(err)
			}
			if cfg.Cron == "" {
				cfg.Cron = defaultCrons[task.Name()]
			}
		}
		if err := s.Register(task, cfg); err != nil {
			panic(err)
		}
	}
	return s
}
