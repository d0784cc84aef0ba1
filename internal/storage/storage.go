// Package storage 保存头像与图片原始数据。每次读取都直接访问底层存储，不做缓存。
package storage

import (
	"context"
	"errors"
	"io"
)

// Kind 资源类别，决定存储目录与扩展名。
type Kind string

const (
	KindIcon  Kind = "icon"
	KindImage Kind = "image"
)

// Ext 返回该类别资源的扩展名（不带点）。
func (k Kind) Ext() string {
	if k == KindIcon {
		return "png"
	}
	return "jpg"
}

// ErrNotFound 资源不存在。
var ErrNotFound = errors.New("storage: asset not found")

// Store 资源存储接口。
type Store interface {
	// Fetch 返回可供图片引擎读取的本地路径，调用方用完后必须调用 release。
	Fetch(ctx context.Context, kind Kind, id string) (path string, release func(), err error)
	Put(ctx context.Context, kind Kind, id string, r io.Reader) error
	Delete(ctx context.Context, kind Kind, id string) error
}

func objectName(kind Kind, id string) string {
	return string(kind) + "/" + id + "." + kind.Ext()
}

func noop() {}
