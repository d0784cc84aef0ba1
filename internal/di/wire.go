//go:build wireinject
// +build wireinject

package di

import (
	"context"
	"io/fs"

	"photo-timeline-server/internal/config"

	"github.com/google/wire"
	"gorm.io/gorm"
)

func InitializeApplication(ctx context.Context, gormDB *gorm.DB, cfg config.Config, frontend fs.FS) (*Application, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
