package lifecycle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/RNikdata/RAB/config"
)

// IDGenerator 由 (申请人, 候选员工, 对调员工) 生成申请编号
type IDGenerator interface {
	Generate(requesterID, candidateID, counterpartID string) (int64, error)
	Scheme() string
}

// NewIDGenerator 按配置的方案创建生成器
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", config.IDSchemeConcat:
		return ConcatIDGenerator{}, nil
	case config.IDSchemeLast4:
		return Last4IDGenerator{}, nil
	}
	return nil, fmt.Errorf("不支持的申请编号方案 %q", scheme)
}

// ConcatIDGenerator 三段 ID 按十进制直接拼接
type ConcatIDGenerator struct{}

func (ConcatIDGenerator) Scheme() string { return config.IDSchemeConcat }

func (ConcatIDGenerator) Generate(requesterID, candidateID, counterpartID string) (int64, error) {
	return joinDigits(requesterID, candidateID, counterpartID)
}

// Last4IDGenerator 每段截取末 4 位后拼接；与 concat 方案的结果不兼容
type Last4IDGenerator struct{}

func (Last4IDGenerator) Scheme() string { return config.IDSchemeLast4 }

func (Last4IDGenerator) Generate(requesterID, candidateID, counterpartID string) (int64, error) {
	return joinDigits(last4(requesterID), last4(candidateID), last4(counterpartID))
}

func last4(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}

func joinDigits(parts ...string) (int64, error) {
	var b strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return 0, fmt.Errorf("%w: %q 不是数字", ErrInvalidRequestID, p)
		}
		b.WriteString(p)
	}
	id, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s 超出范围", ErrInvalidRequestID, b.String())
	}
	return id, nil
}

// PseudoRequesterID 申请人不在花名册中时，由姓名派生稳定的 4 位编号（不保证无碰撞）
func PseudoRequesterID(name string) string {
	h := xxhash.Sum64String(strings.TrimSpace(name))
	return strconv.FormatUint(h%9000+1000, 10)
}
