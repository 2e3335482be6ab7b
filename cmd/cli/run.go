package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"iiot-responder/internal/app"
	"iiot-responder/pkg/metrics"
)

type runOptions struct {
	scenario    string
	description string
	metricsOut  string
	raw         bool
	dryRun      bool
}

// runSummary 本地与远程运行共用的展示字段
type runSummary struct {
	runID          string
	scenario       string
	confidence     float64
	decision       string
	ticketLocation string
	planError      string
	reportMD       string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "对一个场景运行事件处置并输出报告",
		Example: `  responder run --scenario bearing_wear_03
  responder run --scenario network_loss_01 --description "Gateway drops" --raw
  responder run --scenario bearing_wear_03 --api http://localhost:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				sum *runSummary
				err error
			)
			if base := apiBaseURL(root.apiURL); base != "" {
				sum, err = runRemote(cmd, base, opts)
			} else {
				sum, err = runLocal(cmd, root, opts)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printReport(out, sum, opts.raw)
			if opts.metricsOut != "" {
				return writeMetricsFile(opts.metricsOut)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "场景名（data/scenarios/<name>.yaml）")
	cmd.Flags().StringVar(&opts.description, "description", "", "事件描述（默认取场景文件中的 description）")
	cmd.Flags().StringVar(&opts.metricsOut, "metrics-out", "", "运行结束后把 Prometheus 指标写入该文件")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "输出原始 Markdown，不做终端渲染")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "工单只写入内存")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

func runLocal(cmd *cobra.Command, root *rootOptions, opts *runOptions) (*runSummary, error) {
	ctx := cmd.Context()
	cfg, shutdown, err := loadConfig(ctx, root.configPath)
	if err != nil {
		return nil, err
	}
	defer shutdown()

	b, err := app.NewBootstrap(ctx, cfg, app.WithDryRun(opts.dryRun))
	if err != nil {
		return nil, err
	}
	desc, err := b.Scenarios.ResolveDescription(ctx, opts.scenario, opts.description)
	if err != nil {
		return nil, err
	}
	res, err := b.Pipeline.Run(ctx, opts.scenario, desc)
	if err != nil {
		return nil, err
	}
	return &runSummary{
		runID:          res.RunID,
		scenario:       opts.scenario,
		confidence:     res.State.Confidence(),
		decision:       res.Decision,
		ticketLocation: res.TicketLocation,
		planError:      res.PlanError,
		reportMD:       res.State.ReportMD(),
	}, nil
}

func runRemote(cmd *cobra.Command, baseURL string, opts *runOptions) (*runSummary, error) {
	res, err := runIncidentRemote(cmd.Context(), baseURL, opts.scenario, opts.description)
	if err != nil {
		return nil, err
	}
	return &runSummary{
		runID:          res.RunID,
		scenario:       opts.scenario,
		confidence:     res.State.Confidence,
		decision:       res.Decision,
		ticketLocation: res.TicketLocation,
		planError:      res.PlanError,
		reportMD:       res.State.ReportMD,
	}, nil
}

func printReport(out io.Writer, sum *runSummary, raw bool) {
	fmt.Fprintln(out, boldStyle.Render("Incident: "+sum.scenario)+" "+mutedStyle.Render(sum.runID))
	fmt.Fprintln(out, renderMarkdown(out, sum.reportMD, raw))

	fmt.Fprintf(out, "confidence: %.2f\n", sum.confidence)
	fmt.Fprintf(out, "decision:   %s\n", decisionStyle(sum.decision).Render(sum.decision))
	if sum.ticketLocation != "" {
		fmt.Fprintf(out, "ticket:     %s\n", passStyle.Render(sum.ticketLocation))
	} else {
		fmt.Fprintf(out, "ticket:     %s\n", mutedStyle.Render("skipped"))
	}
	if sum.planError != "" {
		fmt.Fprintf(out, "planner:    %s\n", warnStyle.Render("static fallback ("+sum.planError+")"))
	}
}

func writeMetricsFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer f.Close()
	return metrics.WritePrometheus(f)
}
