package router

import (
	"io/fs"
	"time"

	"photo-timeline-server/internal/config"
	"photo-timeline-server/internal/middleware"
	"photo-timeline-server/internal/modules"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

type Router struct {
	modules  *modules.AppModules
	cfg      config.Config
	redis    *goredis.Client
	frontend fs.FS
}

// NewRouter redisClient 与 frontend 均可为 nil。
func NewRouter(appModules *modules.AppModules, cfg config.Config, redisClient *goredis.Client, frontend fs.FS) *Router {
	return &Router{
		modules:  appModules,
		cfg:      cfg,
		redis:    redisClient,
		frontend: frontend,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())
	if rt.cfg.CORS.Enabled {
		r.Use(newCORS(rt.cfg.CORS))
	}
	// 所有请求都先解析访问者，匿名访问不会被中断
	r.Use(middleware.ResolveViewer(rt.modules.User.Service))
	r.Use(middleware.BodyLimitMiddleware(rt.cfg.Server.MaxUploadMB))

	registerPublicRoutes(r, rt)
	registerViewerRoutes(r, rt)
	registerStaticRoutes(r, rt.frontend)
}

// mediaLimiter 头像与图片共用的限流器，未启用时为空操作。
func (rt *Router) mediaLimiter() gin.HandlerFunc {
	if !rt.cfg.RateLimit.Enabled {
		return passThrough
	}
	return middleware.RateLimitMiddleware(middleware.RateLimitOptions{
		Name:        "media",
		RPS:         rt.cfg.RateLimit.MediaRPS,
		Burst:       rt.cfg.RateLimit.MediaBurst,
		Redis:       rt.redis,
		RedisPrefix: rt.cfg.Redis.Prefix,
	})
}

// signupLimiter 同一 IP 的注册间隔限制。
func (rt *Router) signupLimiter() gin.HandlerFunc {
	if !rt.cfg.RateLimit.Enabled || rt.cfg.RateLimit.SignupIntervalSeconds <= 0 {
		return passThrough
	}
	interval := time.Duration(rt.cfg.RateLimit.SignupIntervalSeconds) * time.Second
	return middleware.IntervalRateMiddleware("signup", interval, rt.redis, rt.cfg.Redis.Prefix)
}

func passThrough(c *gin.Context) {
	c.Next()
}

func newCORS(cfg config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AddAllowHeaders(middleware.APIKeyHeader)
	return cors.New(corsConfig)
}
