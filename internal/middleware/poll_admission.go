package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// PollAdmission 限制同时挂起的长轮询数量。超出的请求排队等待槽位，
// 客户端断开（ctx 取消）时放弃排队，不再写响应。
func PollAdmission(maxPollers int) gin.HandlerFunc {
	if maxPollers <= 0 {
		maxPollers = 256
	}
	sem := semaphore.NewWeighted(int64(maxPollers))

	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			logrus.WithError(err).Debug("长轮询排队被取消")
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
