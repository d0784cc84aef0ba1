package handler

import (
	"net/http"

	"photo-timeline-server/internal/middleware"
	"photo-timeline-server/internal/modules/common/dto"
	"photo-timeline-server/internal/modules/common/httpx"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Signup 注册新用户，返回中包含 api key，仅此一次。
func (h *Handler) Signup(c *gin.Context) {
	user, err := h.userService.Signup(c.Request.Context(), c.PostForm("name"))
	if err != nil {
		logrus.WithError(err).Debug("注册失败")
		httpx.WriteServiceError(c, err, "注册失败")
		return
	}

	links := h.urls.For(c)
	c.JSON(http.StatusOK, gin.H{
		"id":      user.ID,
		"name":    user.Name,
		"api_key": user.APIKey,
		"icon":    links.Icon(user.Icon),
	})
}

// Me 返回当前访问者的公开信息
func (h *Handler) Me(c *gin.Context) {
	viewer := middleware.MustViewer(c)
	c.JSON(http.StatusOK, dto.NewPublicUser(*viewer, h.urls.For(c)))
}
