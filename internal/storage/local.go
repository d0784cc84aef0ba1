package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"photo-timeline-server/internal/utils"
)

// Local 将资源保存在 <root>/<kind>/<id>.<ext>。
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("无法创建数据目录 '%s': %w", root, err)
	}
	return &Local{root: root}, nil
}

func (l *Local) path(kind Kind, id string) (string, error) {
	return utils.SecureJoin(l.root, filepath.FromSlash(objectName(kind, id)))
}

func (l *Local) exists(kind Kind, id string) (bool, error) {
	p, err := l.path(kind, id)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (l *Local) Fetch(ctx context.Context, kind Kind, id string) (string, func(), error) {
	ok, err := l.exists(kind, id)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrNotFound
	}
	p, err := l.path(kind, id)
	if err != nil {
		return "", nil, err
	}
	return p, noop, nil
}

func (l *Local) Put(ctx context.Context, kind Kind, id string, r io.Reader) error {
	p, err := l.path(kind, id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	// 先写入同目录临时文件再重命名，避免读到写了一半的文件
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("保存文件失败: %w", err)
	}
	return nil
}

func (l *Local) Delete(ctx context.Context, kind Kind, id string) error {
	p, err := l.path(kind, id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}
