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

package http

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"iiot-responder/internal/agent/triage"
	iapp "iiot-responder/internal/app"
	pkgerrors "iiot-responder/pkg/errors"
	"iiot-responder/pkg/log"
	"iiot-responder/pkg/metrics"
)

// IncidentRunner 执行一次事件处置（*triage.Pipeline 满足）
type IncidentRunner interface {
	Run(ctx context.Context, scenario, description string) (*triage.Result, error)
}

// Handler HTTP 处理器
type Handler struct {
	runner    IncidentRunner
	scenarios iapp.ScenarioService
	logger    *log.Logger
}

// NewHandler 创建新的 HTTP 处理器
func NewHandler(runner IncidentRunner, scenarios iapp.ScenarioService, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Nop()
	}
	return &Handler{runner: runner, scenarios: scenarios, logger: logger}
}

// HealthCheck 健康检查
// GET /api/health
func (h *Handler) HealthCheck(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"service":   "iiot-responder",
	})
}

// ListScenarios 列出场景
// GET /api/scenarios
func (h *Handler) ListScenarios(ctx context.Context, c *app.RequestContext) {
	if h.scenarios == nil {
		c.JSON(consts.StatusServiceUnavailable, map[string]string{"error": "scenario source not configured"})
		return
	}
	list, err := h.scenarios.ListScenarios(ctx)
	if err != nil {
		h.logger.Error("获取场景列表失败", "error", err)
		c.JSON(consts.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusOK, map[string]interface{}{
		"scenarios": list,
		"total":     len(list),
	})
}

type incidentRequest struct {
	Scenario    string `json:"scenario"`
	Description string `json:"description"`
}

type incidentResponse struct {
	*triage.Result
	TicketCreated bool `json:"ticket_created"`
}

// RunIncident 运行一次处置；description 为空时取场景文件中的描述
// POST /api/incidents
func (h *Handler) RunIncident(ctx context.Context, c *app.RequestContext) {
	var req incidentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	req.Scenario = strings.TrimSpace(req.Scenario)
	if req.Scenario == "" {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "scenario is required"})
		return
	}
	if h.runner == nil {
		c.JSON(consts.StatusServiceUnavailable, map[string]string{"error": "pipeline not configured"})
		return
	}

	desc := req.Description
	if desc == "" && h.scenarios != nil {
		var err error
		desc, err = h.scenarios.ResolveDescription(ctx, req.Scenario, "")
		if err != nil {
			h.writeError(c, err)
			return
		}
	}

	res, err := h.runner.Run(ctx, req.Scenario, desc)
	if err != nil {
		h.logger.Error("事件处置失败", "scenario", req.Scenario, "error", err)
		h.writeError(c, err)
		return
	}
	c.JSON(consts.StatusOK, incidentResponse{Result: res, TicketCreated: res.TicketCreated()})
}

// Metrics 暴露 Prometheus 文本格式
// GET /metrics
func (h *Handler) Metrics(ctx context.Context, c *app.RequestContext) {
	var buf bytes.Buffer
	if err := metrics.WritePrometheus(&buf); err != nil {
		c.JSON(consts.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	c.Data(consts.StatusOK, "text/plain; version=0.0.4; charset=utf-8", buf.Bytes())
}

// writeError 按错误类别映射状态码；阶段失败时附带 stage
func (h *Handler) writeError(c *app.RequestContext, err error) {
	body := map[string]string{"error": err.Error()}
	if stage, ok := triage.FailedStage(err); ok {
		body["stage"] = stage
	}
	c.JSON(statusFor(err), body)
}

func statusFor(err error) int {
	switch {
	case pkgerrors.Is(err, pkgerrors.ErrInvalidArg):
		return consts.StatusBadRequest
	case pkgerrors.Is(err, pkgerrors.ErrNotFound), pkgerrors.Is(err, pkgerrors.ErrSourceMissing):
		return consts.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return consts.StatusGatewayTimeout
	default:
		return consts.StatusInternalServerError
	}
}
