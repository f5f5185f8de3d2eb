package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/swotdoc/app"
	"github.com/ByLCY/swotdoc/reply"
)

func (c *cli) questionsCmd() *cobra.Command {
	var csvPath, business, out, debug string
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "为企业生成追问问题，可选输出 PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			questions, err := c.svc.GenerateFollowupQuestions(contextOf(cmd), csvPath, business)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, q := range questions {
				fmt.Fprintf(w, "%d. %s\n", i+1, q)
			}
			if out == "" {
				return nil
			}
			var opts []app.SaveOption
			if debug != "" {
				opts = append(opts, app.WithDebugJSON(debug))
			}
			msg, err := c.svc.SaveQuestionsToPDF(questions, business, out, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "企业资料 CSV/XLSX 路径")
	cmd.Flags().StringVar(&business, "business", "", "企业名称")
	cmd.Flags().StringVar(&out, "out", "", "问卷 PDF 输出路径")
	cmd.Flags().StringVar(&debug, "debug", "", "布局调试 JSON 输出路径")
	_ = cmd.MarkFlagRequired("csv")
	_ = cmd.MarkFlagRequired("business")
	return cmd
}

func (c *cli) swotCmd() *cobra.Command {
	var csvPath, pdfPath, business, out, debug string
	var sections, plain bool
	cmd := &cobra.Command{
		Use:   "swot",
		Short: "结合企业资料与问卷回答生成 SWOT 分析",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			analysis, err := c.svc.GenerateSwotAnalysis(contextOf(cmd), csvPath, pdfPath, business)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if sections {
				parsed, err := reply.ParseAnalysis(analysis)
				if err != nil {
					return err
				}
				fmt.Fprint(w, app.DescribeAnalysis(parsed))
				if !parsed.Complete() {
					c.log.Warn().Msg("analysis does not cover all four quadrants")
				}
			} else {
				fmt.Fprintln(w, analysis)
			}
			if out == "" {
				return nil
			}
			opts := []app.SaveOption{}
			if cmd.Flags().Changed("plain") {
				opts = append(opts, app.WithPlainText(plain))
			}
			if debug != "" {
				opts = append(opts, app.WithDebugJSON(debug))
			}
			msg, err := c.svc.SaveSwotToPDF(analysis, business, out, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "企业资料 CSV/XLSX 路径")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "已填写问卷 PDF 路径")
	cmd.Flags().StringVar(&business, "business", "", "企业名称")
	cmd.Flags().StringVar(&out, "out", "", "SWOT PDF 输出路径")
	cmd.Flags().StringVar(&debug, "debug", "", "布局调试 JSON 输出路径")
	cmd.Flags().BoolVar(&sections, "sections", false, "按象限输出解析后的分析")
	cmd.Flags().BoolVar(&plain, "plain", false, "排版前去除 Markdown 标记")
	for _, f := range []string{"csv", "pdf", "business"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
