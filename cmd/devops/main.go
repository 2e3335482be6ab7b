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

// devops 启动 Eino Dev 调试服务并编译事件处置图，供 IDE 插件（Eino Dev）连接后进行可视化调试。
// 使用：go run ./cmd/devops -config configs/responder.yaml；在 IDE 中配置连接地址 127.0.0.1:52538 后选择 incident_triage 进行 Test Run。
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino-ext/devops"

	"iiot-responder/internal/agent/triage"
	"iiot-responder/internal/app"
	"iiot-responder/pkg/config"
)

func main() {
	configPath := flag.String("config", os.Getenv("RESPONDER_CONFIG"), "配置文件路径")
	flag.Parse()
	ctx := context.Background()

	// 1. 先初始化 Eino Dev 调试服务（必须在任何 Compile 之前调用）
	if err := devops.Init(ctx); err != nil {
		log.Fatalf("[eino dev] init failed: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("[eino dev] load config: %v", err)
	}

	// 2. 装配并编译处置图；工单只写内存，调试运行不会落盘
	if _, err := app.NewBootstrap(ctx, cfg, app.WithDryRun(true)); err != nil {
		log.Fatalf("[eino dev] compile %s: %v", triage.GraphName, err)
	}

	log.Printf("[eino dev] graph %s registered; server listening on 127.0.0.1:52538", triage.GraphName)
	log.Println("[eino dev] press Ctrl+C to exit")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Println("[eino dev] shutting down")
}
