package dto

import "github.com/RNikdata/RAB/internal/lifecycle"

// ── 汇总报表 DTO ──

// SummaryRequest 分组字段
type SummaryRequest struct {
	Keys []string `form:"keys"`
}

// SummaryResponse 分组统计结果
type SummaryResponse struct {
	Keys []string               `json:"keys"`
	Rows []lifecycle.SummaryRow `json:"rows"`
}
