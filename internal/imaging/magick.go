package imaging

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"
)

var identifyPattern = regexp.MustCompile(`(\d+)x(\d+)`)

// CommandRunner 执行外部命令并返回标准输出。
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner 使用 os/exec 执行命令，ctx 取消时进程会被终止。
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s 执行失败: %w (%s)", name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out, nil
}

// MagickOptions ImageMagick 引擎配置。
type MagickOptions struct {
	ConvertBin  string
	IdentifyBin string
	TmpDir      string
	Runner      CommandRunner
	Logger      logrus.FieldLogger
}

// Magick 通过 identify/convert 命令完成变换。
type Magick struct {
	convertBin  string
	identifyBin string
	tmpDir      string
	runner      CommandRunner
	log         logrus.FieldLogger
}

func NewMagick(opts MagickOptions) *Magick {
	m := &Magick{
		convertBin:  opts.ConvertBin,
		identifyBin: opts.IdentifyBin,
		tmpDir:      opts.TmpDir,
		runner:      opts.Runner,
		log:         opts.Logger,
	}
	if m.convertBin == "" {
		m.convertBin = "convert"
	}
	if m.identifyBin == "" {
		m.identifyBin = "identify"
	}
	if m.runner == nil {
		m.runner = ExecRunner{}
	}
	if m.log == nil {
		m.log = logrus.StandardLogger()
	}
	return m
}

func (m *Magick) Identify(ctx context.Context, srcPath string) (Dimensions, error) {
	out, err := m.runner.Run(ctx, m.identifyBin, "-format", `%wx%h\n`, srcPath)
	if err != nil {
		return Dimensions{}, err
	}
	match := identifyPattern.FindSubmatch(out)
	if match == nil {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrInvalidDimensions, bytes.TrimSpace(out))
	}
	w, _ := strconv.Atoi(string(match[1]))
	h, _ := strconv.Atoi(string(match[2]))
	if w <= 0 || h <= 0 {
		return Dimensions{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	return Dimensions{Width: w, Height: h}, nil
}

func (m *Magick) CropToSquare(ctx context.Context, srcPath string, ext string) (string, error) {
	dims, err := m.Identify(ctx, srcPath)
	if err != nil {
		return "", err
	}
	crop, err := CenterSquare(dims)
	if err != nil {
		return "", err
	}

	dst, err := tempFile(m.tmpDir, ext)
	if err != nil {
		return "", err
	}
	if _, err := m.runner.Run(ctx, m.convertBin, srcPath, "-crop", crop.Geometry(), "+repage", dst); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	m.log.WithFields(logrus.Fields{"src": srcPath, "crop": crop.Geometry()}).Debug("裁剪完成")
	return dst, nil
}

func (m *Magick) Resize(ctx context.Context, srcPath string, ext string, width int, height int) ([]byte, error) {
	if width < 0 {
		return readSource(srcPath)
	}

	dst, err := tempFile(m.tmpDir, ext)
	if err != nil {
		return nil, err
	}
	geometry := fmt.Sprintf("%dx%d", width, height)
	if _, err := m.runner.Run(ctx, m.convertBin, srcPath, "-geometry", geometry, dst); err != nil {
		_ = os.Remove(dst)
		return nil, err
	}
	return readAndRemove(dst)
}

func readSource(srcPath string) ([]byte, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("读取源文件失败: %w", err)
	}
	return data, nil
}
