package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RNikdata/RAB/pkg/jwt"
	"github.com/RNikdata/RAB/pkg/redis"
	"github.com/RNikdata/RAB/pkg/response"
)

// 上下文键
const (
	CtxClaims      = "claims"
	CtxUsername    = "username"
	CtxDisplayName = "display_name"
	CtxRole        = "role"
)

// JWTAuth API 认证中间件
// 依次从 Authorization: Bearer <token> 与会话 Cookie 中提取 Token；
// rdb 为 nil 时跳过黑名单检查
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, msg := authenticate(c, jwtMgr, rdb, cookieName)
		if claims == nil {
			response.Unauthorized(c, 10002, msg)
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// SessionAuth 页面认证中间件：未登录时重定向到登录页
func SessionAuth(jwtMgr *jwt.Manager, rdb *redis.Client, cookieName, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := authenticate(c, jwtMgr, rdb, cookieName)
		if claims == nil {
			target := loginPath
			if c.Request.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			}
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}

// authenticate 解析并校验 Token，失败时返回提示信息
func authenticate(c *gin.Context, jwtMgr *jwt.Manager, rdb *redis.Client, cookieName string) (*jwt.Claims, string) {
	token := ""
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return nil, "认证头格式无效"
		}
		token = parts[1]
	} else if cookie, err := c.Cookie(cookieName); err == nil {
		token = cookie
	}
	if token == "" {
		return nil, "缺少认证信息"
	}

	claims, err := jwtMgr.ParseToken(token)
	if err != nil {
		return nil, "Token 无效或已过期"
	}

	if rdb != nil {
		// Redis 出错时降级放行
		if revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
			return nil, "Token 已注销"
		}
	}
	return claims, ""
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(CtxClaims, claims)
	c.Set(CtxUsername, claims.Username)
	c.Set(CtxDisplayName, claims.DisplayName)
	c.Set(CtxRole, claims.Role)
}
