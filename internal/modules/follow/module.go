package follow

import (
	"photo-timeline-server/internal/modules/common/httpx"
	"photo-timeline-server/internal/modules/follow/handler"
	"photo-timeline-server/internal/modules/follow/repo"
	"photo-timeline-server/internal/modules/follow/service"

	"github.com/sirupsen/logrus"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(followStore repo.FollowStore, urls httpx.URLBuilder, log logrus.FieldLogger) *Module {
	moduleService := service.New(followStore, log)
	return &Module{
		Service: moduleService,
		Handler: handler.New(moduleService, urls),
	}
}
