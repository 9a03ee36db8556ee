package ioc

import (
	"github.com/spf13/viper"

	"github.com/Qiangs1023/finpulse/internal/service/notification"
	"github.com/Qiangs1023/finpulse/internal/service/notification/telegram"
	"github.com/Qiangs1023/finpulse/internal/service/notification/wechat"
)

func InitDispatcher() *notification.Dispatcher {
	type Config struct {
		Telegram struct {
			Enabled  bool   `mapstructure:"enabled"`
			BotToken string `mapstructure:"bot_token"`
			ChatID   string `mapstructure:"chat_id"`
		} `mapstructure:"telegram"`
		Wechat struct {
			Enabled bool   `mapstructure:"enabled"`
			Webhook string `mapstructure:"webhook"`
		} `mapstructure:"wechat"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("notifications", &cfg); err != nil {
		panic(err)
	}

	var channels []notification.Channel
	if cfg.Telegram.Enabled {
		channels = append(channels, telegram.NewService(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
	}
	if cfg.Wechat.Enabled {
		channels = append(channels, wechat.NewService(cfg.Wechat.Webhook))
	}
	return notification.NewDispatcher(channels...)
}
