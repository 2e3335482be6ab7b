package object

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"iiot-responder/pkg/errors"
)

// FileStore 以本地目录为根的对象存储；元数据不落盘
type FileStore struct {
	root string
}

// NewFileStore 创建文件存储，目录在首次写入时创建
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) abs(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if clean == "/" {
		return "", errors.Wrapf(errors.ErrInvalidArg, "object path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

// Put 先写临时文件再 rename
func (s *FileStore) Put(ctx context.Context, path string, data io.Reader, metadata map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(err, "create object dir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp object")
	}
	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "write object")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "close object")
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "commit object")
	}
	return nil
}

// Get 读取对象
func (s *FileStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	target, err := s.abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "object %s", path)
		}
		return nil, err
	}
	return f, nil
}

// Exists 检查对象是否存在
func (s *FileStore) Exists(ctx context.Context, path string) (bool, error) {
	target, err := s.abs(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(target)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// List 列出根目录下（不递归）以 prefix 开头的文件
func (s *FileStore) List(ctx context.Context, prefix string) ([]*ObjectInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []*ObjectInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".tmp-") || !strings.HasPrefix(name, prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, &ObjectInfo{Path: name, Size: info.Size(), CreatedAt: info.ModTime().Unix()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Location 返回文件路径
func (s *FileStore) Location(path string) string {
	target, err := s.abs(path)
	if err != nil {
		return filepath.Join(s.root, path)
	}
	return target
}
