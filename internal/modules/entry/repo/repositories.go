package repo

import (
	"context"

	"photo-timeline-server/internal/model"
)

type EntryStore interface {
	FindByID(ctx context.Context, id uint) (*model.Entry, error)
	FindByImage(ctx context.Context, image string) (*model.Entry, error)
	Create(ctx context.Context, entry *model.Entry) error
	Delete(ctx context.Context, entry *model.Entry) error
}

// FollowChecker 可见性判断只需要知道两人之间是否存在关注关系。
type FollowChecker interface {
	IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error)
}
