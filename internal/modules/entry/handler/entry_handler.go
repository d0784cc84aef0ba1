package handler

import (
	"net/http"
	"regexp"
	"strconv"

	"photo-timeline-server/internal/middleware"
	"photo-timeline-server/internal/modules/common/dto"
	"photo-timeline-server/internal/modules/common/httpx"
	entryservice "photo-timeline-server/internal/modules/entry/service"
	"photo-timeline-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var jpegContentType = regexp.MustCompile(`^image/jpe?g`)

// PostEntry 发布一张 jpeg 图片
func (h *Handler) PostEntry(c *gin.Context) {
	viewer := middleware.MustViewer(c)

	level, err := entryservice.ParsePublishLevel(c.PostForm("publish_level"))
	if err != nil {
		httpx.WriteServiceError(c, err, "参数错误")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择图片"})
		return
	}
	if !jpegContentType.MatchString(fileHeader.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "只支持 jpeg 图片"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取图片失败"})
		return
	}
	defer func() { _ = file.Close() }()

	if _, ok := utils.ValidateImageContent(file, "image/jpeg"); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件内容不是 jpeg 图片"})
		return
	}

	entry, err := h.entryService.Create(c.Request.Context(), viewer, level, file)
	if err != nil {
		logrus.WithError(err).WithField("viewer_id", viewer.ID).Error("发布 entry 失败")
		httpx.WriteServiceError(c, err, "发布失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, dto.NewEntryResponse(*entry, *viewer, h.urls.For(c)))
}

// DeleteEntry 通过 POST /entry/:id 且 __method=DELETE 删除自己的 entry
func (h *Handler) DeleteEntry(c *gin.Context) {
	viewer := middleware.MustViewer(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.WriteServiceError(c, entryservice.NotFound(), "")
		return
	}
	if c.PostForm("__method") != http.MethodDelete {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的操作"})
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), viewer, uint(id)); err != nil {
		httpx.WriteServiceError(c, err, "删除失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
