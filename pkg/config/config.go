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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构体
type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	Ticket     TicketConfig     `mapstructure:"ticket"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	API        APIConfig        `mapstructure:"api"`
	Log        LogConfig        `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// DataConfig 场景数据目录（scenarios/ timeseries/ logs/ 均位于 Root 下）
type DataConfig struct {
	Root string `mapstructure:"root"`
}

// KnowledgeConfig 知识库语料配置
type KnowledgeConfig struct {
	Dir          string `mapstructure:"dir"`           // 为空时使用 <data.root>/kb
	SnippetChars int    `mapstructure:"snippet_chars"` // 命中片段长度，<=0 使用 300
}

// PlannerConfig Planner oracle 配置；provider 为 static 时不访问外部模型
type PlannerConfig struct {
	Provider          string  `mapstructure:"provider"` // static | openai | huggingface | claude
	Model             string  `mapstructure:"model"`
	BaseURL           string  `mapstructure:"base_url"`
	APIKey            string  `mapstructure:"api_key"`        // 支持 ${ENV} 形式
	APIKeySecret      string  `mapstructure:"api_key_secret"` // 从 secrets store 读取的 key 名，优先于 api_key
	Timeout           string  `mapstructure:"timeout"`        // 单次调用超时，如 "30s"
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	MaxTokens         int     `mapstructure:"max_tokens"`
}

// TicketConfig 工单落盘配置
type TicketConfig struct {
	Dir string `mapstructure:"dir"`
}

// SecretsConfig Secret Store 配置
type SecretsConfig struct {
	Provider string      `mapstructure:"provider"` // env | memory | vault
	Vault    VaultConfig `mapstructure:"vault"`
}

// VaultConfig Vault 连接配置
type VaultConfig struct {
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	PathPrefix string `mapstructure:"path_prefix"`
}

// APIConfig API 服务配置
type APIConfig struct {
	Port    int    `mapstructure:"port"`
	Host    string `mapstructure:"host"`
	Timeout string `mapstructure:"timeout"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// TracingConfig 链路追踪配置（OpenTelemetry）
type TracingConfig struct {
	Enable         bool   `mapstructure:"enable"`
	ServiceName    string `mapstructure:"service_name"`
	ExportEndpoint string `mapstructure:"export_endpoint"`
	Insecure       bool   `mapstructure:"insecure"`
}

// PrometheusConfig Prometheus 配置
type PrometheusConfig struct {
	Enable bool `mapstructure:"enable"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.root", "data")
	v.SetDefault("knowledge.snippet_chars", 300)
	v.SetDefault("planner.provider", "static")
	v.SetDefault("planner.timeout", "30s")
	v.SetDefault("planner.requests_per_minute", 60)
	v.SetDefault("planner.max_tokens", 256)
	v.SetDefault("ticket.dir", "models")
	v.SetDefault("secrets.provider", "env")
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.timeout", "60s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("monitoring.prometheus.enable", true)
	v.SetDefault("monitoring.tracing.service_name", "iiot-responder")
}

// Default 返回不依赖配置文件的默认配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// 默认值均为基础类型，Unmarshal 不会失败
	_ = v.Unmarshal(&cfg)
	cfg.normalize()
	return &cfg
}

// LoadConfig 加载配置文件；configPath 为空时仅使用默认值与环境变量
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("RESPONDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("无法读取配置文件: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	// 替换环境变量
	config.Planner.APIKey = expandEnv(config.Planner.APIKey)
	config.Secrets.Vault.Token = expandEnv(config.Secrets.Vault.Token)
	config.normalize()
	return &config, nil
}

// normalize 填充依赖其他字段的派生默认值
func (c *Config) normalize() {
	if c.Knowledge.Dir == "" {
		c.Knowledge.Dir = filepath.Join(c.Data.Root, "kb")
	}
	if c.Knowledge.SnippetChars <= 0 {
		c.Knowledge.SnippetChars = 300
	}
	c.Planner.Provider = strings.ToLower(strings.TrimSpace(c.Planner.Provider))
	if c.Planner.Provider == "" {
		c.Planner.Provider = "static"
	}
}

// expandEnv 将 "${VAR}" 或 "$VAR" 替换为环境变量值；变量未设置时保留原值
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "$") {
		return s
	}
	envVar := strings.TrimPrefix(strings.TrimSuffix(s, "}"), "${")
	envVar = strings.TrimPrefix(envVar, "$")
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return s
}
