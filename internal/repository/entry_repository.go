package repository

import (
	"context"

	"photo-timeline-server/internal/model"
)

type EntryStore interface {
	// ListVisible 返回 viewer 可见且 id > cursor 的最新 limit 条记录，按 id 升序排列。
	// cursor 为 0 表示不限制起点。
	ListVisible(ctx context.Context, viewerID uint, cursor uint, limit int) ([]model.Entry, error)
	FindByID(ctx context.Context, id uint) (*model.Entry, error)
	FindByImage(ctx context.Context, image string) (*model.Entry, error)
	Create(ctx context.Context, entry *model.Entry) error
	Delete(ctx context.Context, entry *model.Entry) error
}
