package model

import "time"

// FollowEdge 关注关系（UserID 关注 Target）
// (user_id, target) 唯一，重复关注不会产生新记录
type FollowEdge struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_follow_pair,priority:1;index:idx_follow_user_created,priority:1"`
	Target    uint      `gorm:"column:target;not null;uniqueIndex:idx_follow_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"not null;index:idx_follow_user_created,priority:2"`
}

func (FollowEdge) TableName() string { return "follow_map" }
