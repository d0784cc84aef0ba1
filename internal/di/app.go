package di

import (
	"photo-timeline-server/internal/modules"
	"photo-timeline-server/internal/router"

	goredis "github.com/redis/go-redis/v9"
)

type Application struct {
	Router  *router.Router
	Modules *modules.AppModules
	Redis   *goredis.Client
}

func NewApplication(r *router.Router, m *modules.AppModules, redisClient *goredis.Client) *Application {
	return &Application{
		Router:  r,
		Modules: m,
		Redis:   redisClient,
	}
}
