package errors

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestIOError_IsErrIO(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewIOError("sheets.write", pkgerrors.Wrap(cause, "更新工作表失败"))

	if !errors.Is(err, ErrIO) {
		t.Fatalf("期望 errors.Is(err, ErrIO)，实际: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("应能解包到底层原因")
	}
	if Kind(err) != ErrIO {
		t.Errorf("期望 Kind=ErrIO，实际=%v", Kind(err))
	}
}

func TestNewIOError_Nil(t *testing.T) {
	if NewIOError("noop", nil) != nil {
		t.Error("nil 错误不应被包装")
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want error
	}{
		{fmt.Errorf("%w: 请选择员工", ErrValidation), ErrValidation},
		{fmt.Errorf("%w: 申请不存在", ErrNotFound), ErrNotFound},
		{fmt.Errorf("%w: 已批准", ErrInvalidTransition), ErrInvalidTransition},
		{ErrOptimisticLock, ErrConflict},
		{errors.New("其他"), nil},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Errorf("Kind(%v) = %v，期望 %v", tc.err, got, tc.want)
		}
	}
}
