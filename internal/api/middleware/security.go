package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// boardCSP 看板页面只加载本站资源；照片同源提供，占位图为 data URI
const boardCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; " +
	"form-action 'self'; frame-ancestors 'none'; base-uri 'none'"

// SecurityHeaders 安全 HTTP 头中间件
// 看板与 API 返回的都是实时表格数据，默认不缓存；照片接口自行覆盖 Cache-Control
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Content-Security-Policy", boardCSP)
		h.Set("Cache-Control", "no-store")
		if isHTTPS(c) {
			h.Set("Strict-Transport-Security", "max-age=31536000")
		}

		c.Next()
	}
}

// isHTTPS 直连 TLS 或经反向代理转发的 https 请求
func isHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
