package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RNikdata/RAB/internal/dto"
	"github.com/RNikdata/RAB/internal/service"
	"github.com/RNikdata/RAB/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	cookie  *SessionCookie
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, cookie *SessionCookie) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookie: cookie}
}

// Login 用户登录，同时写入会话 Cookie
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "用户名或密码错误")
			return
		}
		response.InternalError(c)
		return
	}

	if h.cookie != nil {
		h.cookie.set(c, result.AccessToken, result.ExpiresIn)
	}
	response.OK(c, result)
}

// Logout 用户登出：注销 Token 并清除 Cookie
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}
	if h.cookie != nil {
		h.cookie.clear(c)
	}
	response.OK(c, nil)
}

// Me 获取当前用户
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}
	response.OK(c, h.authSvc.Me(claims))
}
