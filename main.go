package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ByLCY/swotdoc/app"
	"github.com/ByLCY/swotdoc/config"
	"github.com/ByLCY/swotdoc/fault"
)

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, fault.Message(err))
		os.Exit(1)
	}
}

// cli 保存一次命令调用的配置与依赖。
type cli struct {
	configPath string
	verbose    bool

	cfg *config.Config
	log zerolog.Logger
	// completion 非空时替代按配置创建的模型后端（测试注入）。
	completion app.CompletionService
	svc        *app.Service
}

func newRootCmd(completion app.CompletionService) *cobra.Command {
	c := &cli{completion: completion}
	root := &cobra.Command{
		Use:   "swotdoc",
		Short: "根据企业资料生成追问问卷与 SWOT 分析 PDF",
		Long: `swotdoc 从 CSV/XLSX 企业资料中定位目标企业，调用本地 Ollama（或 OpenAI 兼容接口）
生成追问问题与 SWOT 分析，并排版输出为 A4 PDF。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath, "YAML 配置文件路径")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(
		c.statusCmd(),
		c.questionsCmd(),
		c.swotCmd(),
		c.saveQuestionsCmd(),
		c.saveSwotCmd(),
		c.serveCmd(),
	)
	return root
}

func (c *cli) init(logOut io.Writer) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = newLogger(cfg.Log, c.verbose, logOut)

	completion := c.completion
	if completion == nil {
		completion, err = app.NewCompletionService(cfg.LLM, c.log)
		if err != nil {
			return err
		}
	}
	c.svc, err = app.New(cfg, completion, c.log)
	return err
}

func newLogger(cfg config.LogConfig, verbose bool, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Caller().Logger()
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "检查模型服务与模型是否可用",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := c.svc.CheckOllamaStatus(contextOf(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
