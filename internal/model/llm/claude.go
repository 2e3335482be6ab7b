package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultClaudeModel = "claude-3-5-haiku-latest"

// ClaudeClient Anthropic Messages API 客户端
type ClaudeClient struct {
	model  anthropic.Model
	client anthropic.Client
}

// NewClaudeClient 创建 Claude 客户端
func NewClaudeClient(model, apiKey, baseURL string) (*ClaudeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("claude api_key not configured")
	}
	if model == "" {
		model = defaultClaudeModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(2)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &ClaudeClient{
		model:  anthropic.Model(model),
		client: anthropic.NewClient(opts...),
	}, nil
}

// Generate 生成文本，取第一个 text block
func (c *ClaudeClient) Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	maxTokens := int64(options.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 256
	}
	params := anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(options.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if options.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: options.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("调用 Claude API failed: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("unexpected response format: no text block")
}

// Model 返回模型名称
func (c *ClaudeClient) Model() string { return string(c.model) }

// Provider 返回提供商名称
func (c *ClaudeClient) Provider() string { return "claude" }
