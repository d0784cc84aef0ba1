package modules

import (
	"photo-timeline-server/internal/imaging"
	"photo-timeline-server/internal/modules/common/httpx"
	"photo-timeline-server/internal/modules/entry"
	"photo-timeline-server/internal/modules/follow"
	"photo-timeline-server/internal/modules/media"
	mediaservice "photo-timeline-server/internal/modules/media/service"
	"photo-timeline-server/internal/modules/timeline"
	timelineservice "photo-timeline-server/internal/modules/timeline/service"
	"photo-timeline-server/internal/modules/user"
	userservice "photo-timeline-server/internal/modules/user/service"
	"photo-timeline-server/internal/repository"
	"photo-timeline-server/internal/storage"

	"github.com/sirupsen/logrus"
)

type AppModules struct {
	User     *user.Module
	Follow   *follow.Module
	Entry    *entry.Module
	Timeline *timeline.Module
	Media    *media.Module
}

// Options 组装模块所需的运行参数。
type Options struct {
	URLs     httpx.URLBuilder
	Timeline timelineservice.Options
	Clock    timelineservice.Clock
	TmpDir   string
	Logger   logrus.FieldLogger
}

func New(
	repos *repository.Repositories,
	assets storage.Store,
	transformer imaging.Transformer,
	opts Options,
) *AppModules {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	clock := opts.Clock
	if clock == nil {
		clock = timelineservice.RealClock()
	}

	followModule := follow.New(repos.Follow, opts.URLs, log)
	// 可见性判断经由关注服务查询关注关系
	entryModule := entry.New(repos.Entry, followModule.Service, assets, userservice.NewOpaqueID, opts.URLs, log)

	return &AppModules{
		User:     user.New(repos.User, opts.URLs),
		Follow:   followModule,
		Entry:    entryModule,
		Timeline: timeline.New(repos.Entry, repos.User, clock, opts.Timeline, opts.URLs, log),
		Media: media.New(entryModule.Service, repos.User, assets, transformer, mediaservice.Options{
			TmpDir: opts.TmpDir,
			NewID:  userservice.NewOpaqueID,
			Logger: log,
		}, opts.URLs),
	}
}
