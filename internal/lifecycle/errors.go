package lifecycle

import (
	"fmt"

	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

// 业务错误，均包装 pkg/errors 中的错误类别
var (
	ErrMissingSelection   = fmt.Errorf("%w: 请完整选择申请经理、候选员工和对调员工", apperrors.ErrValidation)
	ErrSelfSwap           = fmt.Errorf("%w: 候选员工与对调员工不能相同", apperrors.ErrValidation)
	ErrNotEligible        = fmt.Errorf("%w: 候选员工不满足调岗条件", apperrors.ErrValidation)
	ErrInvalidRequestID   = fmt.Errorf("%w: 无法生成申请编号", apperrors.ErrValidation)
	ErrUnknownDecision    = fmt.Errorf("%w: 未知的审批操作", apperrors.ErrValidation)
	ErrEmptyGroupKeys     = fmt.Errorf("%w: 至少选择一个分组字段", apperrors.ErrValidation)
	ErrEmployeeNotFound   = fmt.Errorf("%w: 员工不存在", apperrors.ErrNotFound)
	ErrRequestNotFound    = fmt.Errorf("%w: 申请不存在", apperrors.ErrNotFound)
	ErrInvalidTransition  = fmt.Errorf("%w: 已批准的申请不能驳回，且不能重复设置相同状态", apperrors.ErrInvalidTransition)
	ErrEmployeeCommitted  = fmt.Errorf("%w: 员工已有获批的调岗申请", apperrors.ErrConflict)
	ErrDuplicateRequest   = fmt.Errorf("%w: 相同的申请已在待审批中", apperrors.ErrConflict)
	ErrRequestIDCollision = fmt.Errorf("%w: 申请编号与已有申请冲突", apperrors.ErrConflict)
)
