package dto

import "github.com/RNikdata/RAB/internal/lifecycle"

// ── 看板页面 DTO ──

// BoardQuery 看板页面的全部筛选参数
type BoardQuery struct {
	Tab           string   `form:"tab"`
	Account       []string `form:"account"`
	Billability   []string `form:"billability"`
	Tag           []string `form:"tag"`
	Search        string   `form:"search"`
	Status        string   `form:"status"`
	Manager       string   `form:"manager"`
	RequestSearch string   `form:"request_search"`
	Keys          []string `form:"keys"`
}

// BoardView 看板页面一次渲染所需的全部数据
type BoardView struct {
	KPIs       lifecycle.KPIs     `json:"kpis"`
	Employees  []EmployeeResponse `json:"employees"`
	Requests   []RequestResponse  `json:"requests"`
	Options    lifecycle.Options  `json:"options"`
	Summary    *SummaryResponse   `json:"summary,omitempty"`
	SummaryErr string             `json:"summary_error,omitempty"`
}
