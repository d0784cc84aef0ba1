package handler

import (
	"net/http"

	"photo-timeline-server/internal/middleware"
	"photo-timeline-server/internal/model"
	"photo-timeline-server/internal/modules/common/dto"
	"photo-timeline-server/internal/modules/common/httpx"

	"github.com/gin-gonic/gin"
)

// GetFollowing 当前访问者的关注列表
func (h *Handler) GetFollowing(c *gin.Context) {
	viewer := middleware.MustViewer(c)
	users, err := h.followService.ListFollowing(c.Request.Context(), viewer.ID)
	h.render(c, users, err)
}

// Follow 批量关注 target 参数中的用户
func (h *Handler) Follow(c *gin.Context) {
	viewer := middleware.MustViewer(c)
	users, err := h.followService.FollowMany(c.Request.Context(), viewer.ID, c.PostFormArray("target"))
	h.render(c, users, err)
}

// Unfollow 批量取关 target 参数中的用户
func (h *Handler) Unfollow(c *gin.Context) {
	viewer := middleware.MustViewer(c)
	users, err := h.followService.UnfollowMany(c.Request.Context(), viewer.ID, c.PostFormArray("target"))
	h.render(c, users, err)
}

func (h *Handler) render(c *gin.Context, users []model.User, err error) {
	if err != nil {
		httpx.WriteServiceError(c, err, "获取关注列表失败")
		return
	}
	c.JSON(http.StatusOK, dto.UsersResponse{Users: dto.NewPublicUsers(users, h.urls.For(c))})
}
