package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"photo-timeline-server/internal/imaging"
	"photo-timeline-server/internal/model"
	"photo-timeline-server/internal/modules/media/repo"
	platformservice "photo-timeline-server/internal/platform/service"
	"photo-timeline-server/internal/storage"
	"photo-timeline-server/internal/utils"

	"github.com/sirupsen/logrus"
)

const notFoundMessage = "Not Found"

type Service struct {
	entries     repo.VisibleEntries
	userStore   repo.UserStore
	assets      storage.Store
	transformer imaging.Transformer
	tmpDir      string
	newID       func() string
	log         logrus.FieldLogger
}

type Options struct {
	TmpDir string
	NewID  func() string
	Logger logrus.FieldLogger
}

func New(entries repo.VisibleEntries, userStore repo.UserStore, assets storage.Store, transformer imaging.Transformer, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		entries:     entries,
		userStore:   userStore,
		assets:      assets,
		transformer: transformer,
		tmpDir:      opts.TmpDir,
		newID:       opts.NewID,
		log:         log,
	}
}

func notFound() error {
	return platformservice.NewNotFoundError(notFoundMessage)
}

// Icon 返回缩放到指定尺寸的 png 头像。头像在上传时已裁剪为正方形，这里只缩放。
func (s *Service) Icon(ctx context.Context, iconID string, size string) ([]byte, error) {
	if !utils.ValidateAssetID(iconID) {
		return nil, notFound()
	}
	src, release, err := s.fetch(ctx, storage.KindIcon, iconID)
	if err != nil {
		return nil, err
	}
	defer release()

	side := IconSize(size)
	data, err := s.transformer.Resize(ctx, src, storage.KindIcon.Ext(), side, side)
	if err != nil {
		return nil, fmt.Errorf("缩放失败: %w", err)
	}
	return data, nil
}

// Image 返回访问者可见的 jpeg 图片。原尺寸 (l) 仍会先裁剪为正方形，只是不再缩放。
func (s *Service) Image(ctx context.Context, imageID string, size string, viewer *model.User) ([]byte, error) {
	if !utils.ValidateAssetID(imageID) {
		return nil, notFound()
	}
	if _, err := s.entries.GetVisibleByImage(ctx, imageID, viewer); err != nil {
		return nil, err
	}
	src, release, err := s.fetch(ctx, storage.KindImage, imageID)
	if err != nil {
		return nil, err
	}
	defer release()

	ext := storage.KindImage.Ext()
	cropped, err := s.transformer.CropToSquare(ctx, src, ext)
	if err != nil {
		return nil, fmt.Errorf("裁剪失败: %w", err)
	}
	defer func() { _ = os.Remove(cropped) }()

	// side < 0 表示裁剪后直接返回
	side := ImageSize(size)
	data, err := s.transformer.Resize(ctx, cropped, ext, side, side)
	if err != nil {
		return nil, fmt.Errorf("缩放失败: %w", err)
	}
	return data, nil
}

// fetch 取出原图的本地路径，资源不存在时返回 404。
func (s *Service) fetch(ctx context.Context, kind storage.Kind, id string) (string, func(), error) {
	src, release, err := s.assets.Fetch(ctx, kind, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, notFound()
		}
		return "", nil, fmt.Errorf("读取原图失败: %w", err)
	}
	return src, release, nil
}

// UploadIcon 将上传的图片裁剪为正方形 png 保存为新头像，返回头像 id。
func (s *Service) UploadIcon(ctx context.Context, viewer *model.User, upload io.Reader) (string, error) {
	f, err := os.CreateTemp(s.tmpDir, "upload-*")
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}
	uploadPath := f.Name()
	defer func() { _ = os.Remove(uploadPath) }()

	_, copyErr := io.Copy(f, upload)
	closeErr := f.Close()
	if copyErr != nil {
		return "", fmt.Errorf("保存上传文件失败: %w", copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("保存上传文件失败: %w", closeErr)
	}

	cropped, err := s.transformer.CropToSquare(ctx, uploadPath, storage.KindIcon.Ext())
	if err != nil {
		if errors.Is(err, imaging.ErrInvalidDimensions) {
			return "", platformservice.NewValidationError("无法识别的图片")
		}
		return "", fmt.Errorf("裁剪头像失败: %w", err)
	}
	defer func() { _ = os.Remove(cropped) }()

	iconFile, err := os.Open(cropped)
	if err != nil {
		return "", fmt.Errorf("读取裁剪结果失败: %w", err)
	}
	defer func() { _ = iconFile.Close() }()

	iconID := s.newID()
	if err := s.assets.Put(ctx, storage.KindIcon, iconID, iconFile); err != nil {
		return "", fmt.Errorf("保存头像失败: %w", err)
	}
	if err := s.userStore.UpdateIcon(ctx, viewer.ID, iconID); err != nil {
		if delErr := s.assets.Delete(ctx, storage.KindIcon, iconID); delErr != nil {
			s.log.WithError(delErr).WithField("icon", iconID).Warn("清理头像失败")
		}
		return "", fmt.Errorf("更新头像失败: %w", err)
	}

	s.log.WithFields(logrus.Fields{"viewer_id": viewer.ID, "icon": iconID}).Info("更新头像")
	return iconID, nil
}
