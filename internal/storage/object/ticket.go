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
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// TicketPrefix 工单对象名前缀
const TicketPrefix = "ticket_"

// TicketSink 把报告写成工单对象：ticket_<unix秒>.md，同名已存在时追加 -<n>
type TicketSink struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

// NewTicketSink 创建工单落地器
func NewTicketSink(store Store) *TicketSink {
	return &TicketSink{store: store, now: time.Now}
}

// Store 写入工单并返回位置；同一 sink 上的写入串行
func (t *TicketSink) Store(ctx context.Context, content string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	base := fmt.Sprintf("%s%d", TicketPrefix, t.now().Unix())
	name := base + ".md"
	for n := 1; ; n++ {
		exists, err := t.store.Exists(ctx, name)
		if err != nil {
			return "", fmt.Errorf("check ticket %s: %w", name, err)
		}
		if !exists {
			break
		}
		name = fmt.Sprintf("%s-%d.md", base, n)
	}

	meta := map[string]string{"content-type": "text/markdown"}
	if err := t.store.Put(ctx, name, strings.NewReader(content), meta); err != nil {
		return "", fmt.Errorf("write ticket %s: %w", name, err)
	}
	return t.store.Location(name), nil
}

// List 列出已写入的工单
func (t *TicketSink) List(ctx context.Context) ([]*ObjectInfo, error) {
	return t.store.List(ctx, TicketPrefix)
}
