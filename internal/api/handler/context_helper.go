package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/RNikdata/RAB/internal/api/middleware"
	"github.com/RNikdata/RAB/pkg/jwt"
	"github.com/RNikdata/RAB/pkg/response"
)

// MustGetClaims 从 Gin 上下文中安全提取 JWT Claims。
// 如果认证中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.CtxClaims)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// actorName 审计列中记录的操作人：优先显示名
func actorName(c *gin.Context) string {
	if name := c.GetString(middleware.CtxDisplayName); name != "" {
		return name
	}
	return c.GetString(middleware.CtxUsername)
}
