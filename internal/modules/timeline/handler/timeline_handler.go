package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"photo-timeline-server/internal/middleware"
	"photo-timeline-server/internal/modules/common/dto"
	"photo-timeline-server/internal/modules/common/httpx"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type timelineResponse struct {
	LatestEntry uint                `json:"latest_entry"`
	Entries     []dto.EntryResponse `json:"entries"`
}

// GetTimeline 长轮询获取时间线，latest_entry 缺失或非法时从最新内容开始
func (h *Handler) GetTimeline(c *gin.Context) {
	viewer := middleware.MustViewer(c)
	cursor := parseCursor(c.Query("latest_entry"))

	res, err := h.timelineService.Poll(c.Request.Context(), viewer.ID, cursor)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// 客户端已断开
			c.Abort()
			return
		}
		logrus.WithError(err).WithField("viewer_id", viewer.ID).Error("时间线查询失败")
		httpx.WriteServiceError(c, err, "获取时间线失败")
		return
	}

	links := h.urls.For(c)
	entries := make([]dto.EntryResponse, 0, len(res.Entries))
	for _, item := range res.Entries {
		entries = append(entries, dto.NewEntryResponse(item.Entry, item.Owner, links))
	}
	c.JSON(http.StatusOK, timelineResponse{LatestEntry: res.LatestEntry, Entries: entries})
}

func parseCursor(raw string) uint {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
