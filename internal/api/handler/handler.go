package handler

import (
	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Board   *BoardHandler
	Request *RequestHandler
	Export  *ExportHandler
	Photo   *PhotoHandler
	Web     *WebHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	cookie := NewSessionCookie(&cfg.Auth.Cookie)
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, cookie),
		Board:   NewBoardHandler(svc.Board),
		Request: NewRequestHandler(svc.Request),
		Export:  NewExportHandler(svc.Export),
		Photo:   NewPhotoHandler(svc.Photo),
		Web:     NewWebHandler(svc, cookie),
	}
}
