package model

import (
	"time"

	"photo-timeline-server/internal/consts"
)

// Entry 用户发布的一张图片。ID 严格递增，同时作为时间线游标使用。
type Entry struct {
	ID           uint                `json:"id" gorm:"primaryKey"`
	UserID       uint                `json:"user_id" gorm:"column:user_id;not null;index"`
	Image        string              `json:"image" gorm:"not null;uniqueIndex;size:64"`
	PublishLevel consts.PublishLevel `json:"publish_level" gorm:"not null;index"`
	CreatedAt    time.Time           `json:"created_at" gorm:"not null"`
	User         User                `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}
