package entry

import (
	"photo-timeline-server/internal/modules/common/httpx"
	"photo-timeline-server/internal/modules/entry/handler"
	"photo-timeline-server/internal/modules/entry/repo"
	"photo-timeline-server/internal/modules/entry/service"
	"photo-timeline-server/internal/storage"

	"github.com/sirupsen/logrus"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(
	entryStore repo.EntryStore,
	follows repo.FollowChecker,
	assets storage.Store,
	newID func() string,
	urls httpx.URLBuilder,
	log logrus.FieldLogger,
) *Module {
	moduleService := service.New(entryStore, follows, assets, newID, log)
	return &Module{
		Service: moduleService,
		Handler: handler.New(moduleService, urls),
	}
}
