package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RNikdata/RAB/internal/api/middleware"
	"github.com/RNikdata/RAB/internal/dto"
	"github.com/RNikdata/RAB/internal/lifecycle"
	"github.com/RNikdata/RAB/internal/model"
	"github.com/RNikdata/RAB/internal/service"
	"github.com/RNikdata/RAB/pkg/jwt"
)

// 看板页签
const (
	TabEmployees = "employees"
	TabRequests  = "requests"
	TabForm      = "form"
	TabSummary   = "summary"
)

// 提示级别
const (
	flashOK    = "ok"
	flashError = "error"
)

// WebHandler 服务端渲染的看板页面
// 变更操作统一为 POST + 重定向，结果通过查询参数带回提示语
type WebHandler struct {
	authSvc    service.AuthService
	boardSvc   service.BoardService
	requestSvc service.RequestService
	cookie     *SessionCookie
}

// NewWebHandler 创建 WebHandler
func NewWebHandler(svc *service.Service, cookie *SessionCookie) *WebHandler {
	return &WebHandler{
		authSvc:    svc.Auth,
		boardSvc:   svc.Board,
		requestSvc: svc.Request,
		cookie:     cookie,
	}
}

// ────────────────────── 登录 ──────────────────────

// LoginPage 登录页
// GET /login
func (h *WebHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Next": safeNext(c.Query("next")),
	})
}

// Login 表单登录
// POST /login
func (h *WebHandler) Login(c *gin.Context) {
	next := safeNext(c.PostForm("next"))

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Next": next, "Error": "请输入用户名和密码"})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		status, msg := http.StatusInternalServerError, "服务器内部错误"
		if errors.Is(err, service.ErrInvalidCredentials) {
			status, msg = http.StatusUnauthorized, "用户名或密码错误"
		}
		c.HTML(status, "login.html", gin.H{"Next": next, "Error": msg, "Username": req.Username})
		return
	}

	h.cookie.set(c, result.AccessToken, result.ExpiresIn)
	c.Redirect(http.StatusSeeOther, next)
}

// Logout 退出登录
// POST /logout
func (h *WebHandler) Logout(c *gin.Context) {
	if claims := webClaims(c); claims != nil {
		_ = h.authSvc.Logout(c.Request.Context(), claims)
	}
	h.cookie.clear(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// ────────────────────── 看板 ──────────────────────

// Board 看板页面：每次渲染重新读取花名册与申请表
// GET /
func (h *WebHandler) Board(c *gin.Context) {
	var q dto.BoardQuery
	_ = c.ShouldBindQuery(&q)
	q.Tab = normalizeTab(q.Tab)

	data := gin.H{
		"Tab":         q.Tab,
		"Query":       q,
		"Flash":       c.Query("flash"),
		"Level":       c.Query("level"),
		"Statuses":    model.Statuses,
		"Placeholder": lifecycle.Placeholder,
	}
	if claims := webClaims(c); claims != nil {
		data["User"] = h.authSvc.Me(claims)
		data["CanSubmit"] = isRole(claims.Role, service.RoleAdmin, service.RoleManager)
		data["CanRemove"] = isRole(claims.Role, service.RoleAdmin)
	}

	view, err := h.boardSvc.View(c.Request.Context(), &q)
	if err != nil {
		data["Flash"] = userMessage(err)
		data["Level"] = flashError
		c.HTML(httpStatus(err), "board.html", data)
		return
	}
	data["View"] = view
	c.HTML(http.StatusOK, "board.html", data)
}

// Submit 提交调岗申请
// POST /board/requests
func (h *WebHandler) Submit(c *gin.Context) {
	if !h.requireRole(c, TabForm, service.RoleAdmin, service.RoleManager) {
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirect(c, TabForm, flashError, userMessage(lifecycle.ErrMissingSelection))
		return
	}

	result, err := h.requestSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		h.redirect(c, TabForm, flashError, userMessage(err))
		return
	}
	h.redirect(c, TabForm, flashOK, "申请已提交，编号 "+formatID(result.RequestID))
}

// Decide 批准或驳回申请
// POST /board/requests/:id/decision
func (h *WebHandler) Decide(c *gin.Context) {
	if !h.requireRole(c, TabRequests, service.RoleAdmin, service.RoleManager) {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.redirect(c, TabRequests, flashError, "申请编号无效")
		return
	}
	d, err := lifecycle.ParseDecision(c.PostForm("decision"))
	if err != nil {
		h.redirect(c, TabRequests, flashError, userMessage(err))
		return
	}

	result, err := h.requestSvc.Decide(c.Request.Context(), id, d, actorName(c))
	if err != nil {
		h.redirect(c, TabRequests, flashError, userMessage(err))
		return
	}

	msg := "申请 " + formatID(id) + " 已" + decisionLabel(d)
	if n := len(result.Cascaded); n > 0 {
		ids := make([]string, 0, n)
		for _, cid := range result.Cascaded {
			ids = append(ids, formatID(cid))
		}
		msg += "，同时自动驳回: " + strings.Join(ids, ", ")
	}
	h.redirect(c, TabRequests, flashOK, msg)
}

// Remove 删除申请
// POST /board/requests/:id/delete
func (h *WebHandler) Remove(c *gin.Context) {
	if !h.requireRole(c, TabForm, service.RoleAdmin) {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.redirect(c, TabForm, flashError, "申请编号无效")
		return
	}
	if err := h.requestSvc.Remove(c.Request.Context(), id, actorName(c)); err != nil {
		h.redirect(c, TabForm, flashError, userMessage(err))
		return
	}
	h.redirect(c, TabForm, flashOK, "申请 "+formatID(id)+" 已删除")
}

// ── 辅助函数 ──

func (h *WebHandler) redirect(c *gin.Context, tab, level, msg string) {
	v := url.Values{}
	v.Set("tab", tab)
	if msg != "" {
		v.Set("flash", msg)
		v.Set("level", level)
	}
	c.Redirect(http.StatusSeeOther, "/?"+v.Encode())
}

// requireRole 页面操作的角色检查，无权限时重定向并提示
func (h *WebHandler) requireRole(c *gin.Context, tab string, roles ...string) bool {
	if isRole(c.GetString(middleware.CtxRole), roles...) {
		return true
	}
	h.redirect(c, tab, flashError, "无权限执行该操作")
	return false
}

func webClaims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(middleware.CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

func isRole(role string, allowed ...string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func normalizeTab(tab string) string {
	switch tab {
	case TabRequests, TabForm, TabSummary:
		return tab
	default:
		return TabEmployees
	}
}

// safeNext 只允许站内相对路径，防止开放重定向
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func decisionLabel(d lifecycle.Decision) string {
	if d == lifecycle.DecisionApprove {
		return "批准"
	}
	return "驳回"
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
