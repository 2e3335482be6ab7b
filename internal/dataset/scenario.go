package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"iiot-responder/pkg/errors"
)

// Scenario 场景描述文件内容；Label 仅供评估使用
type Scenario struct {
	Name        string `yaml:"-" json:"name"`
	Description string `yaml:"description" json:"description"`
	Label       string `yaml:"label" json:"label"`
}

// LoadScenario 读取 scenarios/<name>.yaml
func (s *Source) LoadScenario(ctx context.Context, name string) (*Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path("scenarios", name, ".yaml")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "scenario %s", name)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	sc.Name = name
	return &sc, nil
}

// ListScenarios 按名称排序返回 scenarios/ 下的全部场景名；目录不存在时返回空
func (s *Source) ListScenarios(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(s.root, "scenarios", "*.yaml"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}
