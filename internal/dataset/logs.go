package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"iiot-responder/pkg/errors"
)

// MaxLogHits 单次日志检索最多返回条数
const MaxLogHits = 20

// LogRecord 一条结构化日志；Raw 保留原始 JSON（含键顺序），Fields 为解码结果
type LogRecord struct {
	Raw    json.RawMessage
	Fields map[string]any
}

// Msg 返回 msg 字段的文本，缺失时为空
func (r LogRecord) Msg() string {
	v, ok := r.Fields["msg"]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// String 原始 JSON 文本
func (r LogRecord) String() string {
	return string(r.Raw)
}

// MarshalJSON 原样输出 Raw
func (r LogRecord) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// UnmarshalJSON 同时填充 Raw 与 Fields
func (r *LogRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	r.Raw = json.RawMessage(buf.Bytes())
	r.Fields = fields
	return nil
}

// Keywords 将 "a|b|c" 形式的查询拆为小写关键词，丢弃空词
func Keywords(query string) []string {
	parts := strings.Split(strings.ToLower(query), "|")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SearchLogs 在 logs/<scenario>.jsonl 中按关键词（任一命中，不区分大小写）过滤，
// 按文件顺序返回前 MaxLogHits 条。文件不存在为硬错误（ErrSourceMissing）。
// 匹配对象是该行的紧凑 JSON 原文转小写（无 ", " ": " 分隔空格，非 ASCII 不转义），
// 含空格或 `": "` 的关键词因此只会命中原文里本就如此书写的内容
func (s *Source) SearchLogs(ctx context.Context, query string, scenario string) ([]LogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path("logs", scenario, ".jsonl")
	if err != nil {
		return nil, err
	}
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	keywords := Keywords(query)
	hits := make([]LogRecord, 0)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var rec LogRecord
		if err := rec.UnmarshalJSON(text); err != nil {
			return nil, errors.Wrapf(err, "%s line %d", path, line)
		}
		if len(hits) < MaxLogHits && matchAny(strings.ToLower(string(rec.Raw)), keywords) {
			hits = append(hits, rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return hits, nil
}

func matchAny(haystack string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}
