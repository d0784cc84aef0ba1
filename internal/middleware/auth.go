package middleware

import (
	"context"
	"net/http"

	"photo-timeline-server/internal/consts"
	"photo-timeline-server/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	APIKeyHeader = "X-API-Key"
	APIKeyCookie = "api_key"
)

// ViewerResolver 通过 api key 查找用户；未知 key 返回 (nil, nil)。
type ViewerResolver interface {
	ResolveViewer(ctx context.Context, apiKey string) (*model.User, error)
}

// ResolveViewer 解析当前访问者并写入上下文。缺失或未知的 key 视为匿名，不会中断请求。
func ResolveViewer(resolver ViewerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(APIKeyHeader)
		if apiKey == "" {
			apiKey, _ = c.Cookie(APIKeyCookie)
		}
		if apiKey == "" {
			c.Next()
			return
		}

		viewer, err := resolver.ResolveViewer(c.Request.Context(), apiKey)
		if err != nil {
			logrus.WithError(err).Error("解析访问者失败")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
			c.Abort()
			return
		}
		if viewer != nil {
			c.Set(consts.ContextKeyViewer, viewer)
		}
		c.Next()
	}
}

// RequireViewer 要求请求携带有效身份，匿名访问返回 400。
func RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentViewer(c); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "需要有效的 api key"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentViewer 返回当前访问者，匿名时 ok 为 false。
func CurrentViewer(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(consts.ContextKeyViewer)
	if !exists {
		return nil, false
	}
	viewer, ok := value.(*model.User)
	if !ok || viewer == nil {
		return nil, false
	}
	return viewer, true
}

// MustViewer 仅用于挂载了 RequireViewer 的路由。
func MustViewer(c *gin.Context) *model.User {
	viewer, ok := CurrentViewer(c)
	if !ok {
		panic("middleware: RequireViewer is not installed")
	}
	return viewer
}
