package service

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"photo-timeline-server/internal/consts"
	"photo-timeline-server/internal/model"
	"photo-timeline-server/internal/modules/entry/repo"
	platformservice "photo-timeline-server/internal/platform/service"
	"photo-timeline-server/internal/storage"

	"github.com/sirupsen/logrus"
)

// 不存在与无权查看统一使用同一个错误，避免泄露 entry 是否存在。
const notFoundMessage = "Not Found"

type Service struct {
	*Visibility
	entryStore repo.EntryStore
	assets     storage.Store
	newID      func() string
	log        logrus.FieldLogger
}

func New(entryStore repo.EntryStore, follows repo.FollowChecker, assets storage.Store, newID func() string, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		Visibility: NewVisibility(follows),
		entryStore: entryStore,
		assets:     assets,
		newID:      newID,
		log:        log,
	}
}

// NotFound 返回统一的 404 错误。
func NotFound() error {
	return platformservice.NewNotFoundError(notFoundMessage)
}

// ParsePublishLevel 只接受 0、1、2，其它值返回校验错误而不是被强制转换。
func ParsePublishLevel(raw string) (consts.PublishLevel, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || !consts.PublishLevel(n).Valid() {
		return 0, platformservice.NewValidationError("publish_level 参数错误")
	}
	return consts.PublishLevel(n), nil
}

// GetVisibleByImage 按图片 id 查找访问者可见的 entry，不存在与不可见返回同一个 404。
func (s *Service) GetVisibleByImage(ctx context.Context, image string, viewer *model.User) (*model.Entry, error) {
	entry, err := s.entryStore.FindByImage(ctx, image)
	if err != nil {
		if platformservice.IsRecordNotFound(err) {
			return nil, NotFound()
		}
		return nil, fmt.Errorf("查询 entry 失败: %w", err)
	}

	ok, err := s.CanView(ctx, entry, viewer)
	if err != nil {
		return nil, fmt.Errorf("判断可见性失败: %w", err)
	}
	if !ok {
		return nil, NotFound()
	}
	return entry, nil
}

// Create 保存图片并创建 entry。写库失败时删除已保存的图片。
func (s *Service) Create(ctx context.Context, owner *model.User, level consts.PublishLevel, image io.Reader) (*model.Entry, error) {
	if !level.Valid() {
		return nil, platformservice.NewValidationError("publish_level 参数错误")
	}

	imageID := s.newID()
	if err := s.assets.Put(ctx, storage.KindImage, imageID, image); err != nil {
		return nil, fmt.Errorf("保存图片失败: %w", err)
	}

	entry := &model.Entry{UserID: owner.ID, Image: imageID, PublishLevel: level}
	if err := s.entryStore.Create(ctx, entry); err != nil {
		if delErr := s.assets.Delete(ctx, storage.KindImage, imageID); delErr != nil {
			s.log.WithError(delErr).WithField("image", imageID).Warn("清理图片失败")
		}
		return nil, fmt.Errorf("创建 entry 失败: %w", err)
	}

	s.log.WithFields(logrus.Fields{"viewer_id": owner.ID, "entry_id": entry.ID}).Info("发布 entry")
	return entry, nil
}

// Delete 只有作者可以删除。非作者与错误的 method 返回 400。
func (s *Service) Delete(ctx context.Context, viewer *model.User, entryID uint) error {
	entry, err := s.entryStore.FindByID(ctx, entryID)
	if err != nil {
		if platformservice.IsRecordNotFound(err) {
			return NotFound()
		}
		return fmt.Errorf("查询 entry 失败: %w", err)
	}
	if entry.UserID != viewer.ID {
		return platformservice.NewValidationError("只能删除自己的 entry")
	}

	if err := s.entryStore.Delete(ctx, entry); err != nil {
		return fmt.Errorf("删除 entry 失败: %w", err)
	}
	if err := s.assets.Delete(ctx, storage.KindImage, entry.Image); err != nil {
		s.log.WithError(err).WithField("image", entry.Image).Warn("删除图片文件失败")
	}
	return nil
}
