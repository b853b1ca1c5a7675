package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit 请求体大小限制中间件；maxBytes <= 0 表示不限制
// 超限时由绑定失败返回 400，MaxBytesReader 同时关闭连接
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
