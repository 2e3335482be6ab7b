package object

import (
	"context"
	"io"
)

// Store 对象存储接口（工单等产物落地）
type Store interface {
	// Put 写入对象，已存在时覆盖
	Put(ctx context.Context, path string, data io.Reader, metadata map[string]string) error
	// Get 读取对象
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Exists 检查对象是否存在
	Exists(ctx context.Context, path string) (bool, error)
	// List 按前缀列出对象，路径升序
	List(ctx context.Context, prefix string) ([]*ObjectInfo, error)
	// Location 返回对象对外可见的位置（文件路径或 URI）
	Location(path string) string
}

// ObjectInfo 对象信息
type ObjectInfo struct {
	Path      string            `json:"path"`
	Size      int64             `json:"size"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt int64             `json:"created_at"`
}
