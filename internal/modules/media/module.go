package media

import (
	"photo-timeline-server/internal/imaging"
	"photo-timeline-server/internal/modules/common/httpx"
	"photo-timeline-server/internal/modules/media/handler"
	"photo-timeline-server/internal/modules/media/repo"
	"photo-timeline-server/internal/modules/media/service"
	"photo-timeline-server/internal/storage"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(
	entries repo.VisibleEntries,
	userStore repo.UserStore,
	assets storage.Store,
	transformer imaging.Transformer,
	opts service.Options,
	urls httpx.URLBuilder,
) *Module {
	moduleService := service.New(entries, userStore, assets, transformer, opts)
	return &Module{
		Service: moduleService,
		Handler: handler.New(moduleService, urls),
	}
}
