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

package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const openAIMaxRetries = 2

// OpenAIClient 基于 Eino ChatModel 的 OpenAI（及兼容端点）客户端
type OpenAIClient struct {
	model string
	chat  einomodel.BaseChatModel
}

// NewOpenAIClient 创建客户端；baseURL 为空时使用 OPENAI_BASE_URL 或官方端点
func NewOpenAIClient(ctx context.Context, model, apiKey, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api_key not configured")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		Model:   model,
		APIKey:  apiKey,
		BaseURL: baseURL,
		Timeout: 60 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 OpenAI ChatModel failed: %w", err)
	}
	return &OpenAIClient{model: model, chat: cm}, nil
}

// newOpenAIClientWithModel 测试用：注入任意 ChatModel
func newOpenAIClientWithModel(model string, chat einomodel.BaseChatModel) *OpenAIClient {
	return &OpenAIClient{model: model, chat: chat}
}

// Generate 生成文本；瞬时错误按指数退避重试
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	msgs := make([]*schema.Message, 0, 2)
	if options.System != "" {
		msgs = append(msgs, schema.SystemMessage(options.System))
	}
	msgs = append(msgs, schema.UserMessage(prompt))

	opts := []einomodel.Option{einomodel.WithTemperature(float32(options.Temperature))}
	if options.MaxTokens > 0 {
		opts = append(opts, einomodel.WithMaxTokens(options.MaxTokens))
	}

	var out string
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 20 * time.Second
	err := backoff.Retry(func() error {
		resp, err := c.chat.Generate(ctx, msgs, opts...)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			return err
		}
		if resp == nil {
			return backoff.Permanent(fmt.Errorf("openai returned empty message"))
		}
		out = resp.Content
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, openAIMaxRetries), ctx))
	if err != nil {
		return "", fmt.Errorf("调用 OpenAI failed: %w", err)
	}
	return out, nil
}

// Model 返回模型名称
func (c *OpenAIClient) Model() string { return c.model }

// Provider 返回提供商名称
func (c *OpenAIClient) Provider() string { return "openai" }
