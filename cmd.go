package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Qiangs1023/finpulse/ioc"
)

//go:embed config.example.yaml
var exampleConfig []byte

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "finpulse",
	Short: "财经信息聚合推送工具",
	Long:  "FinPulse 聚合股票、加密货币、新闻与政策公告, 生成 AI 市场分析并推送到通知渠道。",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./config/config.yaml", "specify config file")
	rootCmd.AddCommand(analyzeCmd, monitorCmd, testNotifyCmd, configCmd, initCmd)

	analyzeCmd.Flags().String("market", "all", "market selector: all/stocks/crypto/news/policy")
	analyzeCmd.Flags().String("output", "", "write the report to a file instead of stdout")
	monitorCmd.Flags().Bool("once", false, "run every task once and exit")
}

func initViper() {
	viper.SetConfigFile(cfgFile)
	viper.SetEnvPrefix("FINPULSE")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "run one analysis cycle and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		initViper()

		orch := ioc.InitOrchestrator(ioc.InitBinanceCli())
		llmSvc := ioc.InitLLMService(ioc.InitGeminiCli())
		anal := ioc.InitAnalyzer(orch, llmSvc)

		market, _ := cmd.Flags().GetString("market")
		res := anal.Analyze(cmd.Context(), market)

		out := res.Summary + "\n\n" + res.Report + "\n"
		if path, _ := cmd.Flags().GetString("output"); path != "" {
			return os.WriteFile(path, []byte(out), 0o644)
		}
		fmt.Print(out)
		return nil
	},
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "run the scheduled monitor (daemon unless --once)",
	RunE: func(cmd *cobra.Command, args []string) error {
		initViper()

		orch := ioc.InitOrchestrator(ioc.InitBinanceCli())
		llmSvc := ioc.InitLLMService(ioc.InitGeminiCli())
		anal := ioc.InitAnalyzer(orch, llmSvc)
		dispatcher := ioc.InitDispatcher()
		scheduler := ioc.InitScheduler(anal, dispatcher)

		if once, _ := cmd.Flags().GetBool("once"); once {
			return scheduler.RunOnce(cmd.Context())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return scheduler.Run(ctx)
	},
}

var testNotifyCmd = &cobra.Command{
	Use:   "test-notify",
	Short: "send a test message on every configured channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		initViper()

		dispatcher := ioc.InitDispatcher()
		results := dispatcher.SendAll(cmd.Context(), "🔔 FinPulse 通知测试")

		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CHANNEL\tSTATUS\tDETAIL")
		for _, name := range names {
			res := results[name]
			status := "ok"
			if !res.Success {
				status = "failed"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, status, res.Detail)
		}
		return w.Flush()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "display the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		initViper()

		keys := viper.AllKeys()
		sort.Strings(keys)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, key := range keys {
			fmt.Fprintf(w, "%s\t%v\n", key, viper.Get(key))
		}
		return w.Flush()
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "write an example config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("refusing to overwrite existing %s", cfgFile)
		}
		if err := os.MkdirAll(filepath.Dir(cfgFile), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(cfgFile, exampleConfig, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", cfgFile)
		return nil
	},
}
