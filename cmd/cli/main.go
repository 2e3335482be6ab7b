package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"iiot-responder/pkg/config"
	"iiot-responder/pkg/tracing"
)

// version 构建时通过 -ldflags 注入
var version = "0.1.0"

type rootOptions struct {
	configPath string
	apiURL     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "responder",
		Short:         "Industrial IoT incident responder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("RESPONDER_CONFIG"), "配置文件路径")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "远程 API 地址（默认取 RESPONDER_API_URL；为空时本地运行）")

	root.AddCommand(
		newRunCmd(opts),
		newEvalCmd(opts),
		newScenariosCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "iiot-responder cli %s\n", version)
		},
	}
}

// loadConfig 读取配置；启用追踪时初始化 OTLP exporter，返回的函数负责关闭
func loadConfig(ctx context.Context, path string) (*config.Config, func(), error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	shutdown := func() {}
	if cfg.Monitoring.Tracing.Enable && cfg.Monitoring.Tracing.ExportEndpoint != "" {
		stopTracer, err := tracing.InitTracer(ctx, tracing.OTelConfig{
			ServiceName:    cfg.Monitoring.Tracing.ServiceName,
			ExportEndpoint: cfg.Monitoring.Tracing.ExportEndpoint,
			Insecure:       cfg.Monitoring.Tracing.Insecure,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("初始化链路追踪失败: %w", err)
		}
		shutdown = func() { _ = stopTracer(context.Background()) }
	}
	return cfg, shutdown, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}
