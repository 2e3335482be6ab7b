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

// Package memory 单次事件处置的短期证据账本（trace）
package memory

import (
	"fmt"
	"strings"
	"sync"
)

// Field 事件上的一个键值
type Field struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Event 一条 trace 事件；追加后不再修改
type Event struct {
	Kind   string  `json:"kind"`
	Fields []Field `json:"fields,omitempty"`
}

// Get 按 key 取字段值
func (e Event) Get(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Trace 只追加的事件账本，归属于单次运行
type Trace struct {
	mu     sync.RWMutex
	events []Event
}

// NewTrace 创建空 trace
func NewTrace() *Trace {
	return &Trace{}
}

// Log 追加一条事件，kv 为 slog 风格的交替键值；末尾落单的 key 记为 "!BADKEY"
func (t *Trace) Log(kind string, kv ...any) {
	fields := make([]Field, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			fields = append(fields, Field{Key: "!BADKEY", Value: kv[i]})
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, Field{Key: key, Value: kv[i+1]})
	}
	t.mu.Lock()
	t.events = append(t.events, Event{Kind: kind, Fields: fields})
	t.mu.Unlock()
}

// Len 事件条数
func (t *Trace) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.events)
}

// Events 返回事件副本，调用方修改不影响账本
func (t *Trace) Events() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Event, len(t.events))
	for i, e := range t.events {
		out[i] = Event{Kind: e.Kind, Fields: append([]Field(nil), e.Fields...)}
	}
	return out
}

// Kinds 按调用顺序返回事件 kind
func (t *Trace) Kinds() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.events))
	for i, e := range t.events {
		out[i] = e.Kind
	}
	return out
}

// Markdown 渲染为 "## Trace" 段落，每条事件一行
func (t *Trace) Markdown() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var b strings.Builder
	b.WriteString("## Trace\n")
	for _, e := range t.events {
		b.WriteString("\n- **")
		b.WriteString(e.Kind)
		b.WriteString("**: { ")
		for i, f := range e.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Key)
			b.WriteByte(':')
			b.WriteString(formatValue(f.Value))
		}
		b.WriteString(" }")
	}
	return b.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	case []string:
		return "[" + strings.Join(x, ", ") + "]"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
