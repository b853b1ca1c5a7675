package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/RNikdata/RAB/internal/dto"
	"github.com/RNikdata/RAB/internal/lifecycle"
	"github.com/RNikdata/RAB/internal/model"
	"github.com/RNikdata/RAB/internal/service"
	"github.com/RNikdata/RAB/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRequests 导出申请表
// GET /api/v1/export/requests?status=&manager=&search=
func (h *ExportHandler) ExportRequests(c *gin.Context) {
	var req dto.RequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	filter := lifecycle.RequestFilter{Manager: req.Manager, Search: req.Search}
	if req.Status != "" {
		status, err := model.ParseStatus(req.Status)
		if err != nil {
			response.BadRequest(c, 10001, "状态无效")
			return
		}
		filter.Status = status
	}

	buf, filename, err := h.exportSvc.ExportRequests(c.Request.Context(), filter)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	writeAttachment(c, buf, filename)
}

// ExportSummary 导出分组汇总
// GET /api/v1/export/summary?keys=
func (h *ExportHandler) ExportSummary(c *gin.Context) {
	var req dto.SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	if len(req.Keys) == 0 {
		req.Keys = service.DefaultSummaryKeys
	}

	buf, filename, err := h.exportSvc.ExportSummary(c.Request.Context(), req.Keys)
	if err != nil {
		handleDomainError(c, err)
		return
	}
	writeAttachment(c, buf, filename)
}

// writeAttachment 设置下载响应头并写出 xlsx
func writeAttachment(c *gin.Context, buf *bytes.Buffer, filename string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
