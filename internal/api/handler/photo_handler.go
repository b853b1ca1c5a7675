package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RNikdata/RAB/internal/service"
)

// PhotoHandler 员工照片 HTTP 处理器
type PhotoHandler struct {
	photoSvc service.PhotoService
}

// NewPhotoHandler 创建 PhotoHandler
func NewPhotoHandler(photoSvc service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoSvc: photoSvc}
}

// Get 员工照片；取不到时返回占位图，始终 200
// GET /api/v1/employees/:id/photo
// GET /photos/:id
func (h *PhotoHandler) Get(c *gin.Context) {
	img := h.photoSvc.Get(c.Request.Context(), c.Param("id"))
	if img.Placeholder {
		c.Header("Cache-Control", "private, max-age=300")
	} else {
		c.Header("Cache-Control", "private, max-age=86400")
	}
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
