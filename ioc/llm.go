package ioc

import (
	"context"

	"github.com/google/generative-ai-go/genai"
	"github.com/spf13/viper"
	"google.golang.org/api/option"

	"github.com/Qiangs1023/finpulse/internal/service/analyzer"
	"github.com/Qiangs1023/finpulse/internal/service/llm"
	"github.com/Qiangs1023/finpulse/internal/service/llm/gemini"
)

func InitGeminiCli() *genai.Client {
	type Config struct {
		ApiKey []string `mapstructure:"api_key"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("llm.gemini", &cfg); err != nil {
		panic(err)
	}

	if len(cfg.ApiKey) == 0 {
		panic("no gemini api key set")
	}

	cli, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.ApiKey[0]))
	if err != nil {
		panic(err)
	}
	return cli
}

func InitLLMService(cli *genai.Client) llm.Service {
	type Config struct {
		Model       string  `mapstructure:"model"`
		Temperature float32 `mapstructure:"temperature"`
	}

	cfg := Config{Temperature: 0.7}
	if err := viper.UnmarshalKey("llm.gemini", &cfg); err != nil {
		panic(err)
	}

	var opts []gemini.Option
	if cfg.Model != "" {
		// WithModel replaces the model, so it has to come first
		opts = append(opts, gemini.WithModel(cfg.Model))
	}
	opts = append(opts,
		gemini.WithTemperature(cfg.Temperature),
		gemini.WithSystemInstruction(analyzer.SystemPrompt),
	)
	return gemini.NewService(cli, opts...)
}
