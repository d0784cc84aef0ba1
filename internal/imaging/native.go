package imaging

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/draw"
)

// Native 进程内实现，不依赖 ImageMagick。支持 png 与 jpeg。
type Native struct {
	tmpDir string
}

func NewNative(tmpDir string) *Native {
	return &Native{tmpDir: tmpDir}
}

func (n *Native) Identify(ctx context.Context, srcPath string) (Dimensions, error) {
	if err := ctx.Err(); err != nil {
		return Dimensions{}, err
	}
	f, err := os.Open(srcPath)
	if err != nil {
		return Dimensions{}, fmt.Errorf("打开源文件失败: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, ErrInvalidDimensions
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

func (n *Native) CropToSquare(ctx context.Context, srcPath string, ext string) (string, error) {
	src, err := decodeFile(ctx, srcPath)
	if err != nil {
		return "", err
	}
	b := src.Bounds()
	crop, err := CenterSquare(Dimensions{Width: b.Dx(), Height: b.Dy()})
	if err != nil {
		return "", err
	}

	dst := image.NewRGBA(image.Rect(0, 0, crop.Side, crop.Side))
	origin := image.Pt(b.Min.X+crop.OffsetX, b.Min.Y+crop.OffsetY)
	draw.Draw(dst, dst.Bounds(), src, origin, draw.Src)

	return n.writeTemp(ctx, dst, ext)
}

func (n *Native) Resize(ctx context.Context, srcPath string, ext string, width int, height int) ([]byte, error) {
	if width < 0 {
		return readSource(srcPath)
	}
	src, err := decodeFile(ctx, srcPath)
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	// 与 -geometry WxH 一致：等比缩放到目标框内
	b := src.Bounds()
	w, h := fitInside(b.Dx(), b.Dy(), width, height)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	path, err := n.writeTemp(ctx, dst, ext)
	if err != nil {
		return nil, err
	}
	return readAndRemove(path)
}

func (n *Native) writeTemp(ctx context.Context, img image.Image, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := tempFile(n.tmpDir, ext)
	if err != nil {
		return "", err
	}
	if err := encodeFile(path, img, ext); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// maxNativePixels 解码前按声明尺寸拒绝过大的图片，避免一次性分配过多内存。
const maxNativePixels = 50_000_000

func decodeFile(ctx context.Context, srcPath string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("打开源文件失败: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxNativePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, cfg.Width, cfg.Height)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("读取源文件失败: %w", err)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: 解码图片失败: %v", ErrInvalidDimensions, err)
	}
	return img, nil
}

func encodeFile(path string, img image.Image, ext string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		err = png.Encode(f, img)
	case "jpg", "jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		err = fmt.Errorf("不支持的图片格式: %s", ext)
	}
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	return err
}

// fitInside 等比缩放 (w,h) 使其恰好放入 (maxW,maxH)，结果至少为 1 像素。
func fitInside(w, h, maxW, maxH int) (int, int) {
	if w*maxH > h*maxW {
		nh := h * maxW / w
		if nh < 1 {
			nh = 1
		}
		return maxW, nh
	}
	nw := w * maxH / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxH
}
