// Package imaging 负责头像与图片的按需裁剪和缩放。
//
// 所有引擎遵循同一个临时文件约定：中间产物写入 TmpDir 下的新文件，
// 任何错误路径都会清理自己创建的文件；CropToSquare 返回的路径由调用方删除。
package imaging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidDimensions 图片无法识别、无法解码或尺寸非法。
var ErrInvalidDimensions = errors.New("imaging: invalid image dimensions")

// Dimensions 图片宽高（像素）。
type Dimensions struct {
	Width  int
	Height int
}

// SquareCrop 居中正方形裁剪区域。
type SquareCrop struct {
	Side    int
	OffsetX int
	OffsetY int
}

// Transformer 图片变换接口。width < 0 表示保持原图，不做缩放。
type Transformer interface {
	Identify(ctx context.Context, srcPath string) (Dimensions, error)
	CropToSquare(ctx context.Context, srcPath string, ext string) (string, error)
	Resize(ctx context.Context, srcPath string, ext string, width int, height int) ([]byte, error)
}

// CenterSquare 计算居中正方形：边长取短边，偏移向下取整。
func CenterSquare(d Dimensions) (SquareCrop, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return SquareCrop{}, ErrInvalidDimensions
	}
	side := d.Width
	if d.Height < side {
		side = d.Height
	}
	return SquareCrop{
		Side:    side,
		OffsetX: (d.Width - side) / 2,
		OffsetY: (d.Height - side) / 2,
	}, nil
}

// Geometry 返回 ImageMagick 的裁剪几何描述，例如 600x600+100+0。
func (c SquareCrop) Geometry() string {
	return fmt.Sprintf("%dx%d+%d+%d", c.Side, c.Side, c.OffsetX, c.OffsetY)
}

// tempFile 在 dir 下创建一个新的空文件并返回路径。ext 不带点。
func tempFile(dir string, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	f, err := os.CreateTemp(dir, "photo-*."+ext)
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("关闭临时文件失败: %w", err)
	}
	return name, nil
}

// readAndRemove 读取临时文件内容后删除。
func readAndRemove(path string) ([]byte, error) {
	defer func() { _ = os.Remove(path) }()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取临时文件失败: %w", err)
	}
	return data, nil
}
