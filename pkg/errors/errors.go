package errors

import (
	"errors"
	"fmt"
)

// ── 错误类别 ──
// 业务层的具体错误通过 %w 包装其中之一，Handler 层据此映射 HTTP 状态码。

var (
	// ErrValidation 表单缺项、占位选项或不满足资格规则
	ErrValidation = errors.New("参数校验失败")
	// ErrNotFound 员工或申请不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrInvalidTransition 非法的状态变更
	ErrInvalidTransition = errors.New("非法的状态变更")
	// ErrConflict 与现有数据冲突（重复申请、员工已锁定等）
	ErrConflict = errors.New("数据冲突")
	// ErrIO 外部存储读写失败
	ErrIO = errors.New("存储读写失败")
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = fmt.Errorf("%w: 数据已被其他操作修改，请刷新后重试", ErrConflict)

// IOError 外部存储错误，保留底层原因
type IOError struct {
	Op  string
	Err error
}

// NewIOError 创建 IOError；err 为 nil 时返回 nil
func NewIOError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrIO) 对所有 IOError 成立
func (e *IOError) Is(target error) bool { return target == ErrIO }

// Kind 返回错误所属类别，无法归类时返回 nil
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrInvalidTransition, ErrConflict, ErrIO} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
