package app

import (
	"context"
	"fmt"
	"time"

	"iiot-responder/internal/agent/planner"
	"iiot-responder/internal/model/llm"
	"iiot-responder/pkg/config"
	"iiot-responder/pkg/log"
	"iiot-responder/pkg/secrets"
)

const defaultOracleTimeout = 30 * time.Second

// NewPlannerFromConfig 根据 planner 配置创建 Adapter；static 时不创建 oracle
func NewPlannerFromConfig(ctx context.Context, cfg config.PlannerConfig, store secrets.Store, logger *log.Logger) (*planner.Adapter, error) {
	if cfg.Provider == "" || cfg.Provider == "static" {
		return planner.NewAdapter(nil, logger), nil
	}

	apiKey, err := resolveAPIKey(ctx, cfg, store)
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llm.Config{
		Provider:          cfg.Provider,
		Model:             cfg.Model,
		APIKey:            apiKey,
		BaseURL:           cfg.BaseURL,
		Timeout:           parseDuration(cfg.Timeout, defaultOracleTimeout),
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	if err != nil {
		return nil, err
	}
	return planner.NewAdapter(planner.NewLLMOracle(client, cfg.MaxTokens), logger), nil
}

// resolveAPIKey api_key_secret 优先；huggingface 公共端点允许无 key
func resolveAPIKey(ctx context.Context, cfg config.PlannerConfig, store secrets.Store) (string, error) {
	if cfg.APIKeySecret != "" {
		if store == nil {
			return "", fmt.Errorf("planner.api_key_secret %q 已配置但没有 secret store", cfg.APIKeySecret)
		}
		key, err := store.Get(ctx, cfg.APIKeySecret)
		if err != nil {
			return "", fmt.Errorf("读取 planner api key 失败: %w", err)
		}
		return key, nil
	}
	return cfg.APIKey, nil
}

// parseDuration 解析时长字符串，无效或空时返回 defaultVal
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
