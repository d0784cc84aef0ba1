package imaging

import (
	"fmt"
	"os"

	"photo-timeline-server/internal/config"

	"github.com/sirupsen/logrus"
)

// New 按配置选择引擎并套上并发限制。
func New(cfg config.ImageConfig, log logrus.FieldLogger) (Transformer, error) {
	tmpDir := TmpDir(cfg)
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return nil, fmt.Errorf("无法创建临时目录 '%s': %w", tmpDir, err)
	}

	var engine Transformer
	switch cfg.Engine {
	case "", "magick":
		engine = NewMagick(MagickOptions{
			ConvertBin:  cfg.ConvertBin,
			IdentifyBin: cfg.IdentifyBin,
			TmpDir:      tmpDir,
			Logger:      log,
		})
	case "native":
		engine = NewNative(tmpDir)
	default:
		return nil, fmt.Errorf("不支持的图片引擎: %s", cfg.Engine)
	}
	return NewLimited(engine, cfg.MaxConcurrent), nil
}

// TmpDir 返回中间文件目录，未配置时使用系统临时目录。
func TmpDir(cfg config.ImageConfig) string {
	if cfg.TmpDir == "" {
		return os.TempDir()
	}
	return cfg.TmpDir
}
