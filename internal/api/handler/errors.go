package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/RNikdata/RAB/pkg/errors"
	"github.com/RNikdata/RAB/pkg/response"
)

// 业务错误码
const (
	codeValidation = 10001
	codeNotFound   = 14004
	codeTransition = 14009
	codeConflict   = 14010
	codeStore      = 15020
)

// handleDomainError 按错误类别映射 HTTP 状态码，消息直接取自错误本身
func handleDomainError(c *gin.Context, err error) {
	switch apperrors.Kind(err) {
	case apperrors.ErrValidation:
		response.BadRequest(c, codeValidation, err.Error())
	case apperrors.ErrNotFound:
		response.NotFound(c, codeNotFound, err.Error())
	case apperrors.ErrInvalidTransition:
		response.Conflict(c, codeTransition, err.Error())
	case apperrors.ErrConflict:
		response.Conflict(c, codeConflict, err.Error())
	case apperrors.ErrIO:
		var ioErr *apperrors.IOError
		details := ""
		if errors.As(err, &ioErr) {
			details = ioErr.Op
		}
		response.BadGateway(c, codeStore, "数据存储暂不可用，请稍后重试", details)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// userMessage 页面提示语：每个错误对应一条可读消息
func userMessage(err error) string {
	switch apperrors.Kind(err) {
	case apperrors.ErrIO:
		return "数据存储暂不可用，请稍后重试"
	case nil:
		return "服务器内部错误"
	default:
		return err.Error()
	}
}

// httpStatus 页面渲染时使用的状态码，与 handleDomainError 一致
func httpStatus(err error) int {
	switch apperrors.Kind(err) {
	case apperrors.ErrValidation:
		return http.StatusBadRequest
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrInvalidTransition, apperrors.ErrConflict:
		return http.StatusConflict
	case apperrors.ErrIO:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
