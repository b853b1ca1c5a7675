package lifecycle

import (
	"sort"
	"strings"

	"github.com/RNikdata/RAB/internal/model"
)

// BlankGroup 分组字段为空时的组名
const BlankGroup = "(blank)"

// SummaryRow 一个分组的统计
type SummaryRow struct {
	Keys      []string `json:"keys"`
	Employees int      `json:"employees"`
	Requests  int      `json:"requests"`
	Pending   int      `json:"pending"`
	Approved  int      `json:"approved"`
	Rejected  int      `json:"rejected"`
}

// Summarize 按字段组合分组统计合并视图：去重员工数、去重申请数、各状态申请数
func Summarize(rows []model.MergedRow, groupKeys []string) ([]SummaryRow, error) {
	keys := make([]string, 0, len(groupKeys))
	for _, k := range groupKeys {
		if k = strings.TrimSpace(k); k != "" && k != Placeholder {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, ErrEmptyGroupKeys
	}

	type acc struct {
		row       SummaryRow
		employees map[string]bool
		requests  map[int64]bool
	}
	groups := make(map[string]*acc)
	for _, m := range rows {
		vals := make([]string, len(keys))
		for i, k := range keys {
			v := strings.TrimSpace(m.Attr(k))
			if v == "" {
				v = BlankGroup
			}
			vals[i] = v
		}
		gk := strings.Join(vals, "\x1f")
		g, ok := groups[gk]
		if !ok {
			g = &acc{
				row:       SummaryRow{Keys: vals},
				employees: make(map[string]bool),
				requests:  make(map[int64]bool),
			}
			groups[gk] = g
		}
		g.employees[m.Employee.EmployeeID] = true
		if m.Request == nil {
			continue
		}
		if g.requests[m.Request.RequestID] {
			continue
		}
		g.requests[m.Request.RequestID] = true
		switch m.Request.Status {
		case model.StatusPending:
			g.row.Pending++
		case model.StatusApproved:
			g.row.Approved++
		case model.StatusRejected:
			g.row.Rejected++
		}
	}

	out := make([]SummaryRow, 0, len(groups))
	for _, g := range groups {
		g.row.Employees = len(g.employees)
		g.row.Requests = len(g.requests)
		out = append(out, g.row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Keys, out[j].Keys
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return out, nil
}
