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
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedClient 为任意 Client 加上请求限流与单次调用超时
type RateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewRateLimitedClient requestsPerMinute<=0 不限流，timeout<=0 不加超时
func NewRateLimitedClient(inner Client, requestsPerMinute float64, timeout time.Duration) *RateLimitedClient {
	c := &RateLimitedClient{inner: inner, timeout: timeout}
	if requestsPerMinute > 0 {
		burst := int(requestsPerMinute / 60.0 * 2) // burst = 2 秒的配额
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), burst)
	}
	return c
}

// Generate 等待限流许可后在超时内调用下游
func (c *RateLimitedClient) Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("request rate limit wait failed: %w", err)
		}
	}
	return c.inner.Generate(ctx, prompt, options)
}

// Model 返回模型名称
func (c *RateLimitedClient) Model() string { return c.inner.Model() }

// Provider 返回提供商名称
func (c *RateLimitedClient) Provider() string { return c.inner.Provider() }
