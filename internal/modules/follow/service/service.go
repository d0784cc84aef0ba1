package service

import (
	"context"
	"fmt"
	"strconv"

	"photo-timeline-server/internal/model"
	"photo-timeline-server/internal/modules/follow/repo"
	platformservice "photo-timeline-server/internal/platform/service"

	"github.com/sirupsen/logrus"
)

type Service struct {
	followStore repo.FollowStore
	log         logrus.FieldLogger
}

func New(followStore repo.FollowStore, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{followStore: followStore, log: log}
}

// ListFollowing 返回 viewer 关注的用户，最近关注的在前。
func (s *Service) ListFollowing(ctx context.Context, viewerID uint) ([]model.User, error) {
	users, err := s.followStore.ListFollowing(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("查询关注列表失败: %w", err)
	}
	return users, nil
}

// IsFollowing 供 entry 模块的可见性判断使用。
func (s *Service) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	return s.followStore.IsFollowing(ctx, followerID, targetID)
}

// FollowMany 批量关注，返回变更后的关注列表。
func (s *Service) FollowMany(ctx context.Context, viewerID uint, targets []string) ([]model.User, error) {
	return s.applyMany(ctx, viewerID, targets, "follow", s.followStore.Follow)
}

// UnfollowMany 批量取关，返回变更后的关注列表。
func (s *Service) UnfollowMany(ctx context.Context, viewerID uint, targets []string) ([]model.User, error) {
	return s.applyMany(ctx, viewerID, targets, "unfollow", s.followStore.Unfollow)
}

// applyMany 逐个处理目标：无法解析或指向自己的目标直接跳过；
// 单个目标失败只记录日志，全部失败时才返回错误。
func (s *Service) applyMany(
	ctx context.Context,
	viewerID uint,
	targets []string,
	action string,
	apply func(ctx context.Context, followerID, targetID uint) error,
) ([]model.User, error) {
	attempted, failed := 0, 0
	for _, raw := range targets {
		targetID, ok := parseTarget(raw)
		if !ok || targetID == viewerID {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attempted++
		if err := apply(ctx, viewerID, targetID); err != nil {
			failed++
			s.log.WithError(err).WithFields(logrus.Fields{
				"viewer_id": viewerID,
				"target":    targetID,
				"action":    action,
			}).Warn("关注关系更新失败")
		}
	}

	if attempted > 0 && failed == attempted {
		return nil, platformservice.NewInternalError("关注关系更新失败")
	}
	return s.ListFollowing(ctx, viewerID)
}

func parseTarget(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
