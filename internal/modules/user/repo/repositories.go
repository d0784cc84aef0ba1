package repo

import (
	"context"

	"photo-timeline-server/internal/model"
)

type UserStore interface {
	FindByAPIKey(ctx context.Context, apiKey string) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}
