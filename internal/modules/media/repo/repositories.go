package repo

import (
	"context"

	"photo-timeline-server/internal/model"
)

// VisibleEntries 按图片 id 查找访问者可见的 entry，不可见与不存在返回同一个 404。
type VisibleEntries interface {
	GetVisibleByImage(ctx context.Context, image string, viewer *model.User) (*model.Entry, error)
}

type UserStore interface {
	UpdateIcon(ctx context.Context, userID uint, icon string) error
}
