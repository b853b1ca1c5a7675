package lifecycle

import (
	"sort"
	"strings"

	"github.com/RNikdata/RAB/internal/model"
)

// ── 合并视图 ──

// Merge 员工左连接申请（按候选员工 ID）；无申请的员工输出一行 Request 为空
func Merge(employees []model.Employee, requests []model.TransferRequest) []model.MergedRow {
	byCandidate := make(map[string][]int, len(requests))
	for i := range requests {
		byCandidate[requests[i].EmployeeID] = append(byCandidate[requests[i].EmployeeID], i)
	}

	rows := make([]model.MergedRow, 0, len(employees))
	for i := range employees {
		e := &employees[i]
		matches := byCandidate[e.EmployeeID]
		if len(matches) == 0 {
			rows = append(rows, model.MergedRow{Employee: e})
			continue
		}
		for _, j := range matches {
			rows = append(rows, model.MergedRow{Employee: e, Request: &requests[j]})
		}
	}
	return rows
}

// ── 员工表 ──

// EmployeeFilter 员工表筛选条件，空值表示不筛选
type EmployeeFilter struct {
	Accounts    []string
	Billability []string
	Tags        []string
	Search      string // 姓名或 ID 包含
}

// FilterEmployees 按条件筛选员工，保持原顺序
func FilterEmployees(employees []model.Employee, f EmployeeFilter) []model.Employee {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.Employee, 0, len(employees))
	for _, e := range employees {
		if len(f.Accounts) > 0 && !containsFold(f.Accounts, e.AccountName) {
			continue
		}
		if len(f.Billability) > 0 && !containsFold(f.Billability, e.BillabilityStatus) {
			continue
		}
		if len(f.Tags) > 0 && !containsFold(f.Tags, e.Tag) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.EmployeeID), search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// KPIs 看板指标
type KPIs struct {
	TotalEmployees   int `json:"total_employees"`
	TotalUnbilled    int `json:"total_unbilled"`
	TotalUnallocated int `json:"total_unallocated"`
	TotalSNPs        int `json:"total_snps"`
	TotalRequests    int `json:"total_requests"`
	Pending          int `json:"pending"`
	Approved         int `json:"approved"`
	Rejected         int `json:"rejected"`
}

// ComputeKPIs 计算员工与申请指标
func ComputeKPIs(employees []model.Employee, requests []model.TransferRequest) KPIs {
	k := KPIs{TotalEmployees: len(employees), TotalRequests: len(requests)}
	for i := range employees {
		e := &employees[i]
		if strings.EqualFold(strings.TrimSpace(e.BillabilityStatus), "Unbilled") {
			k.TotalUnbilled++
		}
		if strings.EqualFold(strings.TrimSpace(e.Tag), "Unallocated") {
			k.TotalUnallocated++
		}
		if e.IsSNP() {
			k.TotalSNPs++
		}
	}
	for _, r := range requests {
		switch r.Status {
		case model.StatusPending:
			k.Pending++
		case model.StatusApproved:
			k.Approved++
		case model.StatusRejected:
			k.Rejected++
		}
	}
	return k
}

// ── 申请表 ──

// RequestFilter 申请表筛选条件
type RequestFilter struct {
	Status  model.RequestStatus // 空表示全部
	Manager string              // 申请经理包含
	Search  string              // 候选员工姓名或 ID 包含
}

// FilterRequests 按条件筛选申请，按申请编号升序
func FilterRequests(requests []model.TransferRequest, f RequestFilter) []model.TransferRequest {
	manager := strings.ToLower(strings.TrimSpace(f.Manager))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.TransferRequest, 0, len(requests))
	for _, r := range requests {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if manager != "" && !strings.Contains(strings.ToLower(r.InterestedManager), manager) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.EmployeeName), search) &&
			!strings.Contains(strings.ToLower(r.EmployeeID), search) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RequestID < out[j].RequestID })
	return out
}

// ── 表单选项 ──

// Option 下拉框选项
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options 看板表单与筛选器的全部选项
type Options struct {
	Requesters    []string `json:"requesters"`
	Candidates    []Option `json:"candidates"`
	Counterparts  []Option `json:"counterparts"`
	RemovableIDs  []int64  `json:"removable_ids"`
	PendingIDs    []int64  `json:"pending_ids"`
	Accounts      []string `json:"accounts"`
	Billabilities []string `json:"billabilities"`
	Tags          []string `json:"tags"`
	GroupKeys     []string `json:"group_keys"`
}

// BuildOptions 由当前快照构建选项；extraRequesters 为配置中的用户显示名
func BuildOptions(p *Policy, snap Snapshot, extraRequesters []string) Options {
	var (
		requesters = make(map[string]bool)
		accounts   = make(map[string]bool)
		bills      = make(map[string]bool)
		tags       = make(map[string]bool)
		headers    = make(map[string]bool)
		opts       Options
	)
	for _, n := range extraRequesters {
		requesters[strings.TrimSpace(n)] = true
	}

	for i := range snap.Employees {
		e := &snap.Employees[i]
		requesters[strings.TrimSpace(e.ManagerName)] = true
		accounts[e.AccountName] = true
		bills[e.BillabilityStatus] = true
		tags[e.Tag] = true
		for h := range e.Attributes {
			headers[h] = true
		}

		opts.Counterparts = append(opts.Counterparts, Option{Value: e.EmployeeID, Label: e.Label()})
		if p.CheckEligible(e) != nil {
			continue
		}
		if committed(snap.Requests, party{ID: e.EmployeeID, Name: e.Name}, 0) {
			continue
		}
		opts.Candidates = append(opts.Candidates, Option{Value: e.EmployeeID, Label: e.Label()})
	}

	all := make(map[int64]bool)
	pending := make(map[int64]bool)
	for _, r := range snap.Requests {
		all[r.RequestID] = true
		if r.Status == model.StatusPending {
			pending[r.RequestID] = true
		}
	}

	headers[model.ColInterestedManager] = true
	headers[model.ColEmployeeToSwap] = true
	headers[model.ColStatus] = true

	opts.Requesters = sortedKeys(requesters)
	opts.Accounts = sortedKeys(accounts)
	opts.Billabilities = sortedKeys(bills)
	opts.Tags = sortedKeys(tags)
	opts.GroupKeys = sortedKeys(headers)
	opts.RemovableIDs = sortedIDs(all)
	opts.PendingIDs = sortedIDs(pending)
	return opts
}

func sortedIDs(set map[int64]bool) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
