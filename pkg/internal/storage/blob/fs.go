package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeisme/resultvault/pkg/configs"
)

// FSStore 本地文件系统后端：制品按 root/<user>/<result>/<name> 落盘，
// 定位符为文件绝对路径.
type FSStore struct {
	root string
}

// NewFSStore 创建本地后端，根目录不存在则创建；
// 根目录不可用属于致命的构造错误.
func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %s: %w", root, err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", abs, err)
	}

	return &FSStore{root: abs}, nil
}

// Put 写入制品文件并返回绝对路径.
// 写入先于目录行插入，写入失败时调用方不会产生目录行.
func (f *FSStore) Put(ctx context.Context, key string, content []byte, _ string) (string, error) {
	path, err := f.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", key, err)
	}

	return path, nil
}

// Get 按定位符读回文件字节.
func (f *FSStore) Get(ctx context.Context, uri string) ([]byte, error) {
	if err := f.contains(uri); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(uri)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", uri, err)
	}

	return raw, nil
}

// Delete 删除定位符指向的文件，文件已不存在时视为成功；
// 随后自底向上清掉因此变空的父目录，直到根目录为止.
func (f *FSStore) Delete(ctx context.Context, uri string) error {
	if err := f.contains(uri); err != nil {
		return err
	}

	if err := os.Remove(uri); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete artifact %s: %w", uri, err)
	}

	f.pruneEmptyDirs(filepath.Dir(uri))

	return nil
}

// resolve 将相对 key 解析到根目录下的绝对路径，最终路径必须落在根目录内.
func (f *FSStore) resolve(key string) (string, error) {
	path := filepath.Join(f.root, filepath.FromSlash(key))
	if err := f.contains(path); err != nil {
		return "", err
	}

	return path, nil
}

// contains 校验路径落在根目录内.
func (f *FSStore) contains(path string) error {
	cleaned := filepath.Clean(path)
	if cleaned != f.root && !strings.HasPrefix(cleaned, f.root+string(filepath.Separator)) {
		return fmt.Errorf("path %s escapes storage root", path)
	}

	return nil
}

// pruneEmptyDirs 自底向上删除空目录，遇到非空目录或根目录即停止.
func (f *FSStore) pruneEmptyDirs(dir string) {
	for dir != f.root && strings.HasPrefix(dir, f.root) {
		if err := os.Remove(dir); err != nil {
			return
		}

		dir = filepath.Dir(dir)
	}
}

// 注册本地后端工厂函数.
func init() {
	RegisterFactory(configs.BackendLocal, func(_ context.Context, cfg *configs.AppConfig, _ Deps) (Store, error) {
		return NewFSStore(cfg.Storage.Local.Root)
	})
}
