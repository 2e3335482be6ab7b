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
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultHFBaseURL = "https://api-inference.huggingface.co/models"
	defaultHFModel   = "distilgpt2"
)

// HuggingFaceClient HF Inference API 文本生成客户端
type HuggingFaceClient struct {
	model   string
	apiKey  string
	baseURL string
	client  *resty.Client
}

// NewHuggingFaceClient 创建客户端；model 为空时读 HUGGINGFACE_MODEL，仍为空用 distilgpt2
func NewHuggingFaceClient(model, apiKey, baseURL string) (*HuggingFaceClient, error) {
	if model == "" {
		model = os.Getenv("HUGGINGFACE_MODEL")
	}
	if model == "" {
		model = defaultHFModel
	}
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}

	client := resty.New()
	client.SetTimeout(60 * time.Second)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(5 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() == http.StatusServiceUnavailable || r.StatusCode() == http.StatusTooManyRequests
	})

	return &HuggingFaceClient{
		model:   model,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}, nil
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

// Generate 生成文本；System 非空时拼在 prompt 前
func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	if options.System != "" {
		prompt = options.System + "\n" + prompt
	}
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(hfRequest{
			Inputs: prompt,
			Parameters: hfParameters{
				MaxNewTokens: options.MaxTokens,
				Temperature:  options.Temperature,
			},
		})
	if c.apiKey != "" {
		req.SetHeader("Authorization", "Bearer "+c.apiKey)
	}

	response, err := req.Post(c.baseURL + "/" + c.model)
	if err != nil {
		return "", fmt.Errorf("调用 HuggingFace API failed: %w", err)
	}
	if response.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("HuggingFace API 返回错误 (%d): %s", response.StatusCode(), response.String())
	}

	var result []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(response.Body(), &result); err != nil {
		return "", fmt.Errorf("解析 HuggingFace 响应failed: %w", err)
	}
	if len(result) == 0 {
		return "", fmt.Errorf("HuggingFace API 没有返回结果")
	}
	return result[0].GeneratedText, nil
}

// Model 返回模型名称
func (c *HuggingFaceClient) Model() string { return c.model }

// Provider 返回提供商名称
func (c *HuggingFaceClient) Provider() string { return "huggingface" }
