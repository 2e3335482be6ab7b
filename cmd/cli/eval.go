package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iiot-responder/internal/app"
	"iiot-responder/internal/eval"
)

func newEvalCmd(root *rootOptions) *cobra.Command {
	var (
		outdir string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "在全部场景上评估并写出 metrics.csv 与混淆矩阵",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, shutdown, err := loadConfig(ctx, root.configPath)
			if err != nil {
				return err
			}
			defer shutdown()

			b, err := app.NewBootstrap(ctx, cfg, app.WithDryRun(dryRun))
			if err != nil {
				return err
			}
			rows, err := eval.Run(ctx, b.Pipeline, b.Source, b.Logger)
			if err != nil {
				return err
			}
			metricsPath, err := eval.WriteMetrics(rows, outdir)
			if err != nil {
				return err
			}
			confusionPath, err := eval.WriteConfusion(eval.ConfusionMatrix(rows), outdir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range rows {
				mark := passStyle.Render("✓")
				if !r.Correct {
					mark = failStyle.Render("✗")
				}
				fmt.Fprintf(out, "%s %-24s label=%-20s pred=%-20s conf=%.2f\n", mark, r.Scenario, r.Label, r.Pred, r.Confidence)
			}
			fmt.Fprintf(out, "%s %.3f (%d scenarios)\n", boldStyle.Render("accuracy:"), eval.Accuracy(rows), len(rows))
			fmt.Fprintln(out, mutedStyle.Render("wrote "+metricsPath))
			fmt.Fprintln(out, mutedStyle.Render("wrote "+confusionPath))
			return nil
		},
	}
	cmd.Flags().StringVar(&outdir, "outdir", "eval/results", "结果输出目录")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "工单只写入内存")
	return cmd
}
