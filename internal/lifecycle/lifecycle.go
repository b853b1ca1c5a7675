// Package lifecycle 实现调岗申请的提交、审批、删除与只读视图。
// 所有函数都是纯函数：输入快照，返回新的申请表，持久化由调用方负责。
package lifecycle

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/model"
)

// Placeholder 下拉框未选择时的占位值
const Placeholder = "Select an Option"

// Snapshot 一次交互开始时读取的两张表
type Snapshot struct {
	Employees []model.Employee
	Requests  []model.TransferRequest
}

// Policy 生命周期规则
type Policy struct {
	IDs                  IDGenerator
	AllowedBillability   []string // 为空表示不限制
	ExcludedDesignations []string
	Now                  func() time.Time
}

// NewPolicy 由配置创建 Policy
func NewPolicy(cfg *config.LifecycleConfig) (*Policy, error) {
	ids, err := NewIDGenerator(cfg.IDScheme)
	if err != nil {
		return nil, err
	}
	return &Policy{
		IDs:                  ids,
		AllowedBillability:   cfg.AllowedBillability,
		ExcludedDesignations: cfg.ExcludedDesignations,
		Now:                  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (p *Policy) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now()
}

// CheckEligible 候选员工资格：计费状态在允许集合内，职级不在排除集合内
func (p *Policy) CheckEligible(e *model.Employee) error {
	if len(p.AllowedBillability) > 0 && !containsFold(p.AllowedBillability, e.BillabilityStatus) {
		return fmt.Errorf("%w: 计费状态为 %q", ErrNotEligible, e.BillabilityStatus)
	}
	if containsFold(p.ExcludedDesignations, e.Designation) {
		return fmt.Errorf("%w: 职级 %q 不可调岗", ErrNotEligible, e.Designation)
	}
	return nil
}

// ── 花名册索引 ──

// Roster 按 ID / 姓名查找员工
type Roster struct {
	byID   map[string]*model.Employee
	byName map[string]*model.Employee
}

// NewRoster 构建索引；同名员工取首个
func NewRoster(employees []model.Employee) *Roster {
	r := &Roster{
		byID:   make(map[string]*model.Employee, len(employees)),
		byName: make(map[string]*model.Employee, len(employees)),
	}
	for i := range employees {
		e := &employees[i]
		if _, ok := r.byID[e.EmployeeID]; !ok {
			r.byID[e.EmployeeID] = e
		}
		key := nameKey(e.Name)
		if _, ok := r.byName[key]; key != "" && !ok {
			r.byName[key] = e
		}
	}
	return r
}

// ByID 按员工 ID 查找
func (r *Roster) ByID(id string) (*model.Employee, bool) {
	e, ok := r.byID[strings.TrimSpace(id)]
	return e, ok
}

// ByName 按姓名查找（忽略大小写与首尾空白）
func (r *Roster) ByName(name string) (*model.Employee, bool) {
	e, ok := r.byName[nameKey(name)]
	return e, ok
}

// ── 去重 ──

// Dedupe 按 (候选员工, 申请经理, 对调员工) 去重，保留最后出现的行
func Dedupe(requests []model.TransferRequest) []model.TransferRequest {
	seen := make(map[model.RequestKey]bool, len(requests))
	out := make([]model.TransferRequest, 0, len(requests))
	for i := len(requests) - 1; i >= 0; i-- {
		k := requests[i].Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, requests[i])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ── 参与方 ──

// party 申请的一方（候选员工或对调员工）
type party struct {
	ID   string
	Name string
}

// candidateOf 申请的候选员工，姓名优先取花名册
func candidateOf(r *model.TransferRequest, roster *Roster) party {
	p := party{ID: r.EmployeeID, Name: r.EmployeeName}
	if e, ok := roster.ByID(r.EmployeeID); ok {
		p.Name = e.Name
	}
	return p
}

// counterpartOf 申请的对调员工，旧数据缺少 ID 时按姓名回查
func counterpartOf(r *model.TransferRequest, roster *Roster) party {
	p := party{ID: r.SwapEmployeeID, Name: r.EmployeeToSwap}
	if p.ID == "" {
		if e, ok := roster.ByName(r.EmployeeToSwap); ok {
			p.ID = e.EmployeeID
		}
	}
	return p
}

// committed 员工是否已出现在某个获批申请中；skipID 用于排除正在审批的申请
func committed(requests []model.TransferRequest, p party, skipID int64) bool {
	for i := range requests {
		r := &requests[i]
		if r.Status != model.StatusApproved || r.RequestID == skipID {
			continue
		}
		if p.ID != "" && r.Involves(p.ID, p.Name) {
			return true
		}
	}
	return false
}

// sameCounterpart 两条申请是否指向同一对调员工：双方都有 ID 时按 ID，否则按姓名
func sameCounterpart(r *model.TransferRequest, cp party) bool {
	if r.SwapEmployeeID != "" && cp.ID != "" {
		return r.SwapEmployeeID == cp.ID
	}
	return sameName(r.EmployeeToSwap, cp.Name)
}

// ── helpers ──

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sameName(a, b string) bool {
	return nameKey(a) != "" && nameKey(a) == nameKey(b)
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

func isUnset(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == Placeholder
}

func cloneRequests(requests []model.TransferRequest) []model.TransferRequest {
	return append([]model.TransferRequest(nil), requests...)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
