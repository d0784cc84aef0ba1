package repo

import (
	"context"

	"photo-timeline-server/internal/model"
)

type EntryStore interface {
	ListVisible(ctx context.Context, viewerID uint, cursor uint, limit int) ([]model.Entry, error)
}

type UserStore interface {
	FindByIDs(ctx context.Context, ids []uint) ([]model.User, error)
}
