package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"photo-timeline-server/internal/consts"
	"photo-timeline-server/internal/model"
	"photo-timeline-server/internal/modules/user/repo"
	platformservice "photo-timeline-server/internal/platform/service"
	"photo-timeline-server/internal/utils"

	"github.com/google/uuid"
)

type Service struct {
	userStore repo.UserStore
}

func New(userStore repo.UserStore) *Service {
	return &Service{userStore: userStore}
}

// NewOpaqueID 生成 64 位十六进制的不可猜测 id，用于 api key 与图片 id。
func NewOpaqueID() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])
}

// Signup 注册新用户，头像为默认头像。
func (s *Service) Signup(ctx context.Context, name string) (*model.User, error) {
	if ok, msg := utils.ValidateUserName(name); !ok {
		return nil, platformservice.NewValidationError(msg)
	}

	if _, err := s.userStore.FindByName(ctx, name); err == nil {
		return nil, platformservice.NewConflictError("用户名已存在")
	} else if !platformservice.IsRecordNotFound(err) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	user := &model.User{
		Name:   name,
		APIKey: NewOpaqueID(),
		Icon:   consts.DefaultIcon,
	}
	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return user, nil
}

// ResolveViewer 通过 api key 查找当前访问者。未知 key 视为匿名，返回 (nil, nil)。
func (s *Service) ResolveViewer(ctx context.Context, apiKey string) (*model.User, error) {
	if apiKey == "" {
		return nil, nil
	}
	user, err := s.userStore.FindByAPIKey(ctx, apiKey)
	if err != nil {
		if platformservice.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询访问者失败: %w", err)
	}
	return user, nil
}
