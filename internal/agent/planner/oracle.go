package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"iiot-responder/internal/model/llm"
)

// Oracle 外部计划来源，可能失败或输出不合法
type Oracle interface {
	Describe(ctx context.Context, description string) (*Plan, error)
}

// StaticPlanner 总是返回静态计划
type StaticPlanner struct{}

// Describe 实现 Oracle
func (StaticPlanner) Describe(ctx context.Context, description string) (*Plan, error) {
	return StaticPlan(), nil
}

const oracleSystemPrompt = `You are a planning assistant for an industrial IoT incident responder.
Given an incident description, reply with one JSON object only:
{"steps": ["step", ...], "stop_condition": "expression over confidence and evidence_sources", "confidence_hint": 0.0}
Valid steps: triage, timeseries, logs, hypothesize, verify, remediate.`

// LLMOracle 用 llm.Client 生成计划
type LLMOracle struct {
	client    llm.Client
	maxTokens int
}

// NewLLMOracle 创建 LLM oracle；maxTokens<=0 使用 256
func NewLLMOracle(client llm.Client, maxTokens int) *LLMOracle {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &LLMOracle{client: client, maxTokens: maxTokens}
}

// Provider 下游模型提供商
func (o *LLMOracle) Provider() string { return o.client.Provider() }

// Model 下游模型名称
func (o *LLMOracle) Model() string { return o.client.Model() }

// Describe 调用模型并从回复中截取第一个 '{' 到最后一个 '}' 解析为计划
func (o *LLMOracle) Describe(ctx context.Context, description string) (*Plan, error) {
	prompt := "Incident description: " + description +
		"\n\nProduce JSON plan with fields: steps[], stop_condition, confidence_hint (0-1)."
	reply, err := o.client.Generate(ctx, prompt, llm.GenerateOptions{
		System:      oracleSystemPrompt,
		Temperature: 0.2,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("planner oracle: %w", err)
	}
	return ParsePlan(reply)
}

// ParsePlan 从模型回复中解析计划并校验形状
func ParsePlan(reply string) (*Plan, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("planner oracle reply has no JSON object")
	}
	var plan Plan
	if err := json.Unmarshal([]byte(reply[start:end+1]), &plan); err != nil {
		return nil, fmt.Errorf("decode planner oracle reply: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	plan.Source = SourceOracle
	return &plan, nil
}
