package httpx

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// URLBuilder 生成响应中的绝对地址。
type URLBuilder struct {
	base string
}

// NewURLBuilder configured 为空时根据请求头推导。
func NewURLBuilder(configured string) URLBuilder {
	return URLBuilder{base: strings.TrimRight(configured, "/")}
}

// For 返回绑定到当前请求的地址生成函数。
func (b URLBuilder) For(c *gin.Context) Links {
	return Links{base: b.BaseURL(c)}
}

// BaseURL 优先使用配置值，其次 X-Forwarded-Host，最后 Host。
func (b URLBuilder) BaseURL(c *gin.Context) string {
	if b.base != "" {
		return b.base
	}
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	return "http://" + host
}

// Links 针对某个 base url 生成图片与头像地址。
type Links struct {
	base string
}

func NewLinks(base string) Links {
	return Links{base: strings.TrimRight(base, "/")}
}

func (l Links) Icon(id string) string {
	return l.base + "/icon/" + id
}

func (l Links) Image(id string) string {
	return l.base + "/image/" + id
}
