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

// Package dataset 读取场景数据：场景描述、时序 CSV 与结构化日志 JSONL
package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"iiot-responder/pkg/errors"
)

// Source 以 root 为根的场景数据源
//
//	<root>/scenarios/<name>.yaml
//	<root>/timeseries/<name>.csv
//	<root>/logs/<name>.jsonl
type Source struct {
	root string
}

// NewSource 创建数据源
func NewSource(root string) *Source {
	return &Source{root: root}
}

// Root 数据根目录
func (s *Source) Root() string {
	return s.root
}

// validName 场景名只能是单个路径段
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.Wrapf(errors.ErrInvalidArg, "scenario name %q", name)
	}
	return nil
}

// path 返回 <root>/<kind>/<name><ext>；name 非法时返回 ErrInvalidArg
func (s *Source) path(kind, name, ext string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.root, kind, name+ext), nil
}

// open 打开场景文件；文件不存在时返回包裹 ErrSourceMissing 的错误
func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrSourceMissing, "open %s", path)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}
