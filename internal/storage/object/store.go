package object

import (
	"fmt"
)

// NewStore 根据类型创建对象存储：file（默认，root 为目录）或 memory
func NewStore(kind, root string) (Store, error) {
	switch kind {
	case "", "file":
		return NewFileStore(root), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("不支持的对象存储类型: %s", kind)
	}
}
