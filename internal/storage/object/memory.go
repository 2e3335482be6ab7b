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

package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"iiot-responder/pkg/errors"
)

// MemoryStore 内存对象存储（测试与 dry-run）
type MemoryStore struct {
	objects map[string]*object
	mu      sync.RWMutex
}

type object struct {
	data      []byte
	metadata  map[string]string
	createdAt int64
}

// NewMemoryStore 创建内存对象存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]*object),
	}
}

// Put 写入对象
func (s *MemoryStore) Put(ctx context.Context, path string, data io.Reader, metadata map[string]string) error {
	buffer := &bytes.Buffer{}
	if _, err := io.Copy(buffer, data); err != nil {
		return fmt.Errorf("failed to read object data: %w", err)
	}
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = &object{
		data:      buffer.Bytes(),
		metadata:  meta,
		createdAt: time.Now().Unix(),
	}
	return nil
}

// Get 读取对象
func (s *MemoryStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "object %s", path)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Exists 检查对象是否存在
func (s *MemoryStore) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[path]
	return ok, nil
}

// List 按前缀列出对象
func (s *MemoryStore) List(ctx context.Context, prefix string) ([]*ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ObjectInfo
	for path, obj := range s.objects {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		out = append(out, &ObjectInfo{
			Path:      path,
			Size:      int64(len(obj.data)),
			Metadata:  obj.metadata,
			CreatedAt: obj.createdAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Location 返回 memory:// URI
func (s *MemoryStore) Location(path string) string {
	return "memory://" + path
}
