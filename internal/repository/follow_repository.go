package repository

import (
	"context"

	"photo-timeline-server/internal/model"
)

// FollowStore 关注图访问接口。Follow 与 Unfollow 都是幂等的，自己关注自己为空操作。
type FollowStore interface {
	ListFollowing(ctx context.Context, userID uint) ([]model.User, error)
	Follow(ctx context.Context, followerID uint, targetID uint) error
	Unfollow(ctx context.Context, followerID uint, targetID uint) error
	IsFollowing(ctx context.Context, followerID uint, targetID uint) (bool, error)
}
