// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command api 以 HTTP 形式暴露事件处置流水线
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"iiot-responder/internal/app"
	"iiot-responder/internal/app/api"
	"iiot-responder/pkg/config"
)

const shutdownGrace = 30 * time.Second

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	b, err := app.NewBootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	application, err := api.NewApp(b)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	errCh := make(chan error, 1)
	go func() { errCh <- application.Run(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	b.Logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return application.Shutdown(sctx)
}

func main() {
	configPath := flag.String("config", os.Getenv("RESPONDER_CONFIG"), "配置文件路径")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "iiot-responder api:", err)
		os.Exit(1)
	}
}
