package router

import (
	"photo-timeline-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

// registerViewerRoutes 需要 api key 的接口，匿名访问返回 400。
func registerViewerRoutes(r *gin.Engine, rt *Router) {
	viewer := r.Group("")
	viewer.Use(middleware.RequireViewer())

	uploadBodyLimit := middleware.UploadBodyLimitMiddleware(rt.cfg.Server.MaxUploadMB)

	viewer.GET("/me", rt.modules.User.Handler.Me)

	viewer.GET("/timeline",
		middleware.PollAdmission(rt.cfg.Timeline.MaxPollers),
		middleware.NoCache(),
		rt.modules.Timeline.Handler.GetTimeline,
	)

	// 关注列表因访问者而异，禁止缓存
	viewer.GET("/follow", middleware.NoCache(), rt.modules.Follow.Handler.GetFollowing)
	viewer.POST("/follow", middleware.NoCache(), rt.modules.Follow.Handler.Follow)
	viewer.POST("/unfollow", middleware.NoCache(), rt.modules.Follow.Handler.Unfollow)

	viewer.POST("/entry", uploadBodyLimit, rt.modules.Entry.Handler.PostEntry)
	viewer.POST("/entry/:id", rt.modules.Entry.Handler.DeleteEntry)

	viewer.POST("/icon", uploadBodyLimit, rt.modules.Media.Handler.PostIcon)
}
