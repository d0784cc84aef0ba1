package timeline

import (
	"photo-timeline-server/internal/modules/common/httpx"
	"photo-timeline-server/internal/modules/timeline/handler"
	"photo-timeline-server/internal/modules/timeline/repo"
	"photo-timeline-server/internal/modules/timeline/service"

	"github.com/sirupsen/logrus"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(
	entryStore repo.EntryStore,
	userStore repo.UserStore,
	clock service.Clock,
	opts service.Options,
	urls httpx.URLBuilder,
	log logrus.FieldLogger,
) *Module {
	moduleService := service.New(entryStore, userStore, clock, opts, log)
	return &Module{
		Service: moduleService,
		Handler: handler.New(moduleService, urls),
	}
}
