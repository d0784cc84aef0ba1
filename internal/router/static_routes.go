package router

import (
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"photo-timeline-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

const staticCacheControl = "public, max-age=3600"

// registerStaticRoutes 未匹配的 GET 请求回落到前端静态文件，根路径返回 index.html。
func registerStaticRoutes(r *gin.Engine, frontend fs.FS) {
	staticCache := middleware.StaticCacheMiddleware(staticCacheControl)

	r.NoRoute(func(c *gin.Context) {
		if frontend == nil || c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}

		name := strings.TrimPrefix(path.Clean(c.Request.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}

		// http.FileServer 会把 /index.html 重定向到 /，这里直接读取
		data, err := fs.ReadFile(frontend, name)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}

		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		staticCache(c)
		c.Data(http.StatusOK, contentType, data)
	})
}
