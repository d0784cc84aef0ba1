package user

import (
	"photo-timeline-server/internal/modules/common/httpx"
	"photo-timeline-server/internal/modules/user/handler"
	"photo-timeline-server/internal/modules/user/repo"
	"photo-timeline-server/internal/modules/user/service"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(userStore repo.UserStore, urls httpx.URLBuilder) *Module {
	moduleService := service.New(userStore)
	return &Module{
		Service: moduleService,
		Handler: handler.New(moduleService, urls),
	}
}
