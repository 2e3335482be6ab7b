// Package llm planner oracle 使用的文本生成客户端
package llm

import (
	"context"
	"fmt"
	"time"
)

// Client LLM 客户端接口
type Client interface {
	// Generate 生成文本
	Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error)
	// Model 返回模型名称
	Model() string
	// Provider 返回提供商名称
	Provider() string
}

// GenerateOptions 生成选项
type GenerateOptions struct {
	System      string  `json:"system"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Config 客户端配置
type Config struct {
	Provider          string
	Model             string
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute float64
}

// NewClient 按 provider 创建客户端，并套上限流与单次调用超时
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	var (
		c   Client
		err error
	)
	switch cfg.Provider {
	case "openai":
		c, err = NewOpenAIClient(ctx, cfg.Model, cfg.APIKey, cfg.BaseURL)
	case "huggingface", "hf":
		c, err = NewHuggingFaceClient(cfg.Model, cfg.APIKey, cfg.BaseURL)
	case "claude", "anthropic":
		c, err = NewClaudeClient(cfg.Model, cfg.APIKey, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewRateLimitedClient(c, cfg.RequestsPerMinute, cfg.Timeout), nil
}
