package repository

import (
	"context"
	"errors"

	"photo-timeline-server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	db *gorm.DB
}

func (r *FollowRepository) ListFollowing(ctx context.Context, userID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("users.*").
		Joins("JOIN follow_map ON follow_map.target = users.id").
		Where("follow_map.user_id = ?", userID).
		Order("follow_map.created_at DESC").
		Order("follow_map.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *FollowRepository) Follow(ctx context.Context, followerID uint, targetID uint) error {
	if followerID == targetID {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 目标用户不存在时静默忽略，与对不存在的目标取关保持一致
		var user model.User
		if err := tx.Select("id").First(&user, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		edge := model.FollowEdge{UserID: followerID, Target: targetID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
	})
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID uint, targetID uint) error {
	if followerID == targetID {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND target = ?", followerID, targetID).
		Delete(&model.FollowEdge{}).Error
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID uint, targetID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.FollowEdge{}).
		Where("user_id = ? AND target = ?", followerID, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
