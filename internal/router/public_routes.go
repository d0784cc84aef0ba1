package router

import (
	"net/http"

	"photo-timeline-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerPublicRoutes(r *gin.Engine, rt *Router) {
	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.POST("/signup", rt.signupLimiter(), rt.modules.User.Handler.Signup)

	// 图片每次都按当前可见性重新计算，禁止缓存
	mediaLimiter := rt.mediaLimiter()
	r.GET("/icon/:icon", mediaLimiter, middleware.NoCache(), rt.modules.Media.Handler.GetIcon)
	r.GET("/image/:image", mediaLimiter, middleware.NoCache(), rt.modules.Media.Handler.GetImage)
}
