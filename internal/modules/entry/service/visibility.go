package service

import (
	"context"

	"photo-timeline-server/internal/consts"
	"photo-timeline-server/internal/model"
	"photo-timeline-server/internal/modules/entry/repo"
)

// Visibility 判断访问者能否看到某条 entry。
type Visibility struct {
	follows repo.FollowChecker
}

func NewVisibility(follows repo.FollowChecker) *Visibility {
	return &Visibility{follows: follows}
}

// CanView viewer 为 nil 表示匿名。只有“仅关注者可见且访问者不是作者”时才会查询关注关系。
func (v *Visibility) CanView(ctx context.Context, entry *model.Entry, viewer *model.User) (bool, error) {
	switch entry.PublishLevel {
	case consts.PublishPublic:
		return true, nil
	case consts.PublishPrivate:
		return viewer != nil && viewer.ID == entry.UserID, nil
	case consts.PublishFollowers:
		if viewer == nil {
			return false, nil
		}
		if viewer.ID == entry.UserID {
			return true, nil
		}
		return v.follows.IsFollowing(ctx, viewer.ID, entry.UserID)
	default:
		return false, nil
	}
}
