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

package app

import (
	"context"

	"iiot-responder/internal/dataset"
)

// ScenarioInfo 场景信息 DTO，供 API 与 CLI 使用，不依赖 dataset 具体类型
type ScenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Label       string `json:"label,omitempty"`
}

// ScenarioService 场景门面：API 层仅依赖此接口
type ScenarioService interface {
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	GetScenario(ctx context.Context, name string) (*ScenarioInfo, error)
	// ResolveDescription description 为空时取场景文件中的描述
	ResolveDescription(ctx context.Context, name, description string) (string, error)
}

// scenarioService 使用 dataset.Source 实现 ScenarioService
type scenarioService struct {
	source *dataset.Source
}

// NewScenarioService 创建场景门面
func NewScenarioService(source *dataset.Source) ScenarioService {
	return &scenarioService{source: source}
}

func (s *scenarioService) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	names, err := s.source.ListScenarios(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*ScenarioInfo, 0, len(names))
	for _, name := range names {
		info, err := s.GetScenario(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *scenarioService) GetScenario(ctx context.Context, name string) (*ScenarioInfo, error) {
	sc, err := s.source.LoadScenario(ctx, name)
	if err != nil {
		return nil, err
	}
	return &ScenarioInfo{Name: sc.Name, Description: sc.Description, Label: sc.Label}, nil
}

func (s *scenarioService) ResolveDescription(ctx context.Context, name, description string) (string, error) {
	if description != "" {
		return description, nil
	}
	info, err := s.GetScenario(ctx, name)
	if err != nil {
		return "", err
	}
	return info.Description, nil
}
