package repository

import (
	"context"
	"sort"

	"photo-timeline-server/internal/consts"
	"photo-timeline-server/internal/model"

	"gorm.io/gorm"
)

type EntryRepository struct {
	db *gorm.DB
}

func (r *EntryRepository) ListVisible(ctx context.Context, viewerID uint, cursor uint, limit int) ([]model.Entry, error) {
	db := r.db.WithContext(ctx)

	followed := db.Model(&model.FollowEdge{}).Select("target").Where("user_id = ?", viewerID)

	// 三个可见性分支必须整体加括号，否则 id > ? 只会约束最后一个分支
	query := db.Model(&model.Entry{}).Where(
		db.Where("entries.user_id = ?", viewerID).
			Or("entries.publish_level = ?", consts.PublishPublic).
			Or(db.Where("entries.publish_level = ?", consts.PublishFollowers).
				Where("entries.user_id IN (?)", followed)),
	)
	if cursor > 0 {
		query = query.Where("entries.id > ?", cursor)
	}

	var entries []model.Entry
	if err := query.Order("entries.id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id uint) (*model.Entry, error) {
	var entry model.Entry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepository) FindByImage(ctx context.Context, image string) (*model.Entry, error) {
	var entry model.Entry
	if err := r.db.WithContext(ctx).Where("image = ?", image).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepository) Create(ctx context.Context, entry *model.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *EntryRepository) Delete(ctx context.Context, entry *model.Entry) error {
	return r.db.WithContext(ctx).Delete(entry).Error
}
