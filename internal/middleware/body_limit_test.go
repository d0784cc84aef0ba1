package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// 测试内容：验证上传接口超出大小限制时返回 413。
func TestUploadBodyLimitMiddleware_RejectsTooLarge(t *testing.T) {
	r := gin.New()
	r.POST("/entry", UploadBodyLimitMiddleware(1), func(c *gin.Context) { c.Status(http.StatusOK) })

	payload := bytes.Repeat([]byte("a"), 2*1024*1024)
	req := httptest.NewRequest(http.MethodPost, "/entry", bytes.NewReader(payload))
	req.ContentLength = int64(len(payload))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("期望 413, 实际为 %d", w.Code)
	}
}

// 测试内容：验证普通请求体超过限制时读取失败。
func TestBodyLimitMiddleware_LimitsReader(t *testing.T) {
	r := gin.New()
	r.POST("/x", BodyLimitMiddleware(1), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	small := httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader([]byte("ok")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, small)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际为 %d", w.Code)
	}

	big := httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader(bytes.Repeat([]byte("a"), 2*1024*1024)))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, big)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("期望 413, 实际为 %d", w.Code)
	}
}
