package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/RNikdata/RAB/internal/dto"
	"github.com/RNikdata/RAB/internal/service"
	"github.com/RNikdata/RAB/pkg/response"
)

// BoardHandler 看板只读视图 HTTP 处理器
type BoardHandler struct {
	boardSvc service.BoardService
}

// NewBoardHandler 创建 BoardHandler
func NewBoardHandler(boardSvc service.BoardService) *BoardHandler {
	return &BoardHandler{boardSvc: boardSvc}
}

// ListEmployees 员工列表
// GET /api/v1/employees?account=&billability=&tag=&search=&page=&page_size=
func (h *BoardHandler) ListEmployees(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.boardSvc.ListEmployees(c.Request.Context(), &req)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// KPIs 看板指标
// GET /api/v1/employees/kpis
func (h *BoardHandler) KPIs(c *gin.Context) {
	kpis, err := h.boardSvc.KPIs(c.Request.Context())
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.OK(c, kpis)
}

// Options 表单与筛选器选项
// GET /api/v1/board/options
func (h *BoardHandler) Options(c *gin.Context) {
	opts, err := h.boardSvc.Options(c.Request.Context())
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.OK(c, opts)
}

// Summary 分组汇总
// GET /api/v1/summary?keys=Account%20Name&keys=Status
func (h *BoardHandler) Summary(c *gin.Context) {
	var req dto.SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	if len(req.Keys) == 0 {
		req.Keys = service.DefaultSummaryKeys
	}

	result, err := h.boardSvc.Summary(c.Request.Context(), req.Keys)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	response.OK(c, result)
}
