package middleware

import "github.com/gin-gonic/gin"

// NoCache 禁止缓存：时间线、关注列表与按权限返回的图片都依赖访问者身份。
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.Next()
	}
}

// StaticCacheMiddleware 为 public 目录下的静态资源设置 Cache-Control
func StaticCacheMiddleware(cacheControl string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cacheControl != "" {
			c.Header("Cache-Control", cacheControl)
		}
		c.Next()
	}
}
