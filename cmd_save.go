package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/swotdoc/app"
	"github.com/ByLCY/swotdoc/fault"
)

// readInput 读取 --in 文件；"-" 表示标准输入。
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fault.Input(err, "Failed to read %s", path)
	}
	return string(data), nil
}

func (c *cli) saveQuestionsCmd() *cobra.Command {
	var in, business, out, debug string
	cmd := &cobra.Command{
		Use:   "save-questions",
		Short: "将问题列表（每行一个）排版为 PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readInput(cmd, in)
			if err != nil {
				return err
			}
			var questions []string
			for _, l := range strings.Split(text, "\n") {
				if l = strings.TrimSpace(l); l != "" {
					questions = append(questions, l)
				}
			}
			var opts []app.SaveOption
			if debug != "" {
				opts = append(opts, app.WithDebugJSON(debug))
			}
			msg, err := c.svc.SaveQuestionsToPDF(questions, business, out, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "问题文本文件，- 表示标准输入")
	cmd.Flags().StringVar(&business, "business", "", "企业名称")
	cmd.Flags().StringVar(&out, "out", "", "PDF 输出路径")
	cmd.Flags().StringVar(&debug, "debug", "", "布局调试 JSON 输出路径")
	for _, f := range []string{"in", "business", "out"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (c *cli) saveSwotCmd() *cobra.Command {
	var in, business, out, debug string
	var plain bool
	cmd := &cobra.Command{
		Use:   "save-swot",
		Short: "将 SWOT 分析文本排版为 PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readInput(cmd, in)
			if err != nil {
				return err
			}
			var opts []app.SaveOption
			if cmd.Flags().Changed("plain") {
				opts = append(opts, app.WithPlainText(plain))
			}
			if debug != "" {
				opts = append(opts, app.WithDebugJSON(debug))
			}
			msg, err := c.svc.SaveSwotToPDF(text, business, out, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "分析文本文件，- 表示标准输入")
	cmd.Flags().StringVar(&business, "business", "", "企业名称")
	cmd.Flags().StringVar(&out, "out", "", "PDF 输出路径")
	cmd.Flags().StringVar(&debug, "debug", "", "布局调试 JSON 输出路径")
	cmd.Flags().BoolVar(&plain, "plain", false, "排版前去除 Markdown 标记")
	for _, f := range []string{"in", "business", "out"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
