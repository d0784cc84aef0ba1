package di

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"photo-timeline-server/internal/config"
	"photo-timeline-server/internal/imaging"
	"photo-timeline-server/internal/modules"
	"photo-timeline-server/internal/modules/common/httpx"
	timelineservice "photo-timeline-server/internal/modules/timeline/service"
	platformredis "photo-timeline-server/internal/platform/redis"
	"photo-timeline-server/internal/repository"
	"photo-timeline-server/internal/router"
	"photo-timeline-server/internal/storage"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProviderSet 组装应用所需的全部依赖。
var ProviderSet = wire.NewSet(
	ProvideRepositories,
	ProvideStorage,
	ProvideTransformer,
	ProvideRedis,
	ProvideModuleOptions,
	modules.New,
	ProvideRouter,
	NewApplication,
)

func ProvideStorage(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "", "local":
		return storage.NewLocal(cfg.Storage.DataDir)
	case "s3":
		return storage.NewS3FromConfig(ctx, cfg.Storage.S3, imaging.TmpDir(cfg.Image))
	default:
		return nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Storage.Driver)
	}
}

func ProvideTransformer(cfg config.Config) (imaging.Transformer, error) {
	return imaging.New(cfg.Image, logrus.StandardLogger())
}

// ProvideRedis 未启用或连接失败时返回 nil，限流降级为进程内实现。
func ProvideRedis(cfg config.Config) *goredis.Client {
	return platformredis.NewClient(cfg.Redis)
}

func ProvideModuleOptions(cfg config.Config) modules.Options {
	return modules.Options{
		URLs: httpx.NewURLBuilder(cfg.Server.BaseURL),
		Timeline: timelineservice.Options{
			Timeout:  time.Duration(cfg.Timeline.TimeoutSeconds) * time.Second,
			Interval: time.Duration(cfg.Timeline.IntervalSeconds) * time.Second,
			Limit:    cfg.Timeline.Limit,
		},
		TmpDir: imaging.TmpDir(cfg.Image),
		Logger: logrus.StandardLogger(),
	}
}

func ProvideRepositories(gdb *gorm.DB) *repository.Repositories {
	return repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewEntryRepository(gdb),
		repository.NewFollowRepository(gdb),
	)
}

// ProvideRouter frontend 为 nil 时不提供静态文件。
func ProvideRouter(appModules *modules.AppModules, cfg config.Config, redisClient *goredis.Client, frontend fs.FS) *router.Router {
	return router.NewRouter(appModules, cfg, redisClient, frontend)
}
