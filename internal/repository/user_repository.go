package repository

import (
	"context"

	"photo-timeline-server/internal/model"
)

type UserStore interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.User, error)
	FindByAPIKey(ctx context.Context, apiKey string) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateIcon(ctx context.Context, userID uint, icon string) error
}
