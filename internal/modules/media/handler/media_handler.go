package handler

import (
	"net/http"
	"regexp"

	"photo-timeline-server/internal/middleware"
	"photo-timeline-server/internal/modules/common/httpx"
	"photo-timeline-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var iconContentType = regexp.MustCompile(`^image/(jpe?g|png)`)

// GetIcon 返回正方形 png 头像，size 为 s/m/l
func (h *Handler) GetIcon(c *gin.Context) {
	data, err := h.mediaService.Icon(c.Request.Context(), c.Param("icon"), c.Query("size"))
	if err != nil {
		writeMediaError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// GetImage 返回访问者可见的 jpeg 图片，size 为 s/m/l
func (h *Handler) GetImage(c *gin.Context) {
	viewer, _ := middleware.CurrentViewer(c)
	data, err := h.mediaService.Image(c.Request.Context(), c.Param("image"), c.Query("size"), viewer)
	if err != nil {
		writeMediaError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

// PostIcon 上传新头像，png 或 jpeg
func (h *Handler) PostIcon(c *gin.Context) {
	viewer := middleware.MustViewer(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择图片"})
		return
	}
	if !iconContentType.MatchString(fileHeader.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "只支持 png 或 jpeg 图片"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取图片失败"})
		return
	}
	defer func() { _ = file.Close() }()

	if _, ok := utils.ValidateImageContent(file, "image/png", "image/jpeg"); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件内容不是 png 或 jpeg 图片"})
		return
	}

	iconID, err := h.mediaService.UploadIcon(c.Request.Context(), viewer, file)
	if err != nil {
		logrus.WithError(err).WithField("viewer_id", viewer.ID).Error("上传头像失败")
		httpx.WriteServiceError(c, err, "上传失败，请稍后重试")
		return
	}
	c.JSON(http.StatusOK, gin.H{"icon": h.urls.For(c).Icon(iconID)})
}

func writeMediaError(c *gin.Context, err error) {
	if c.Request.Context().Err() != nil {
		c.Abort()
		return
	}
	logrus.WithError(err).WithField("path", c.Request.URL.Path).Debug("读取图片失败")
	httpx.WriteServiceError(c, err, "读取图片失败")
}
