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

// Package ingest 加载知识库语料（.md / .txt / .pdf）
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"iiot-responder/pkg/errors"
	"iiot-responder/pkg/log"
)

// Document 一篇语料；ID 为文件名去掉扩展名
type Document struct {
	ID   string
	Path string
	Text string
}

// SupportedExt 可加载的扩展名
var SupportedExt = map[string]bool{
	".md":  true,
	".txt": true,
	".pdf": true,
}

// LoadCorpus 按文件名字典序加载 dir 下的语料（不递归）。
// 目录不存在视为空语料；无法解析的 PDF 记 warn 后跳过
func LoadCorpus(ctx context.Context, dir string, logger *log.Logger) ([]Document, error) {
	if logger == nil {
		logger = log.Nop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("knowledge dir not found, corpus is empty", "dir", dir)
			return []Document{}, nil
		}
		return nil, errors.Wrapf(err, "read knowledge dir %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if SupportedExt[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}

		ext := strings.ToLower(filepath.Ext(name))
		var text string
		if ext == ".pdf" {
			text, err = ExtractPDFText(data)
			if err != nil {
				logger.Warn("skip unreadable pdf", "path", path, "error", err)
				continue
			}
		} else {
			text = decodeText(data)
		}
		docs = append(docs, Document{
			ID:   strings.TrimSuffix(name, filepath.Ext(name)),
			Path: path,
			Text: text,
		})
	}
	logger.Debug("knowledge corpus loaded", "dir", dir, "documents", len(docs))
	return docs, nil
}

// decodeText 按 UTF-8 解码，非法字节丢弃
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r != utf8.RuneError || size > 1 {
			b.WriteRune(r)
		}
		data = data[size:]
	}
	return b.String()
}
