package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RNikdata/RAB/internal/dto"
	"github.com/RNikdata/RAB/internal/lifecycle"
	"github.com/RNikdata/RAB/internal/service"
	"github.com/RNikdata/RAB/pkg/response"
)

// RequestHandler 调岗申请 HTTP 处理器
type RequestHandler struct {
	requestSvc service.RequestService
}

// NewRequestHandler 创建 RequestHandler
func NewRequestHandler(requestSvc service.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// List 申请列表
// GET /api/v1/requests?status=&manager=&search=&page=&page_size=
func (h *RequestHandler) List(c *gin.Context) {
	var req dto.RequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.requestSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Create 提交调岗申请
// POST /api/v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "请完整选择申请经理、候选员工和对调员工")
		return
	}

	result, err := h.requestSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.Created(c, result)
}

// Approve 批准申请
// POST /api/v1/requests/:id/approve
func (h *RequestHandler) Approve(c *gin.Context) {
	h.decide(c, lifecycle.DecisionApprove)
}

// Reject 驳回申请
// POST /api/v1/requests/:id/reject
func (h *RequestHandler) Reject(c *gin.Context) {
	h.decide(c, lifecycle.DecisionReject)
}

func (h *RequestHandler) decide(c *gin.Context, d lifecycle.Decision) {
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.Decide(c.Request.Context(), id, d, actorName(c))
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除申请
// DELETE /api/v1/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	if err := h.requestSvc.Remove(c.Request.Context(), id, actorName(c)); err != nil {
		handleDomainError(c, err)
		return
	}
	response.OK(c, nil)
}

// parseRequestID 解析路径中的申请编号，失败时写入 400 响应
func parseRequestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "申请编号无效")
		return 0, false
	}
	return id, true
}
