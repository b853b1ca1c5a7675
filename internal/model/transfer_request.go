package model

import (
	"fmt"
	"strings"
	"time"
)

// RequestStatus 申请状态
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// Statuses 全部合法状态（展示顺序）
var Statuses = []RequestStatus{StatusPending, StatusApproved, StatusRejected}

// ParseStatus 大小写不敏感地解析状态，空值视为 Pending
func ParseStatus(s string) (RequestStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "rejected":
		return StatusRejected, nil
	}
	return "", fmt.Errorf("未知的申请状态 %q", s)
}

// TransferRequest 调岗/换人申请 — 对应 transfer_requests
type TransferRequest struct {
	RowOrder          int           `gorm:"primaryKey;autoIncrement:false"               json:"-"`
	RequestID         int64         `gorm:"not null;index"                               json:"request_id"`
	EmployeeID        string        `gorm:"type:varchar(32);not null"                    json:"employee_id"` // 候选员工
	EmployeeName      string        `gorm:"type:varchar(200)"                            json:"employee_name,omitempty"`
	Email             string        `gorm:"type:varchar(255)"                            json:"email,omitempty"`
	InterestedManager string        `gorm:"type:varchar(200);not null"                   json:"interested_manager"`
	EmployeeToSwap    string        `gorm:"type:varchar(200);not null"                   json:"employee_to_swap"`         // 对调员工姓名
	SwapEmployeeID    string        `gorm:"type:varchar(32)"                             json:"swap_employee_id,omitempty"` // 旧数据可能为空
	Status            RequestStatus `gorm:"type:varchar(20);not null;default:'Pending'"  json:"status"`
	RequestedAt       *time.Time    `json:"requested_at,omitempty"`
	DecidedAt         *time.Time    `json:"decided_at,omitempty"`
	DecidedBy         string        `gorm:"type:varchar(200)"                            json:"decided_by,omitempty"`
}

// TableName 指定表名
func (TransferRequest) TableName() string { return "transfer_requests" }

// 申请表规范列名
const (
	ColRequestID         = "Request Id"
	ColInterestedManager = "Interested Manager"
	ColEmployeeToSwap    = "Employee to Swap"
	ColSwapEmployeeID    = "Swap Employee Id"
	ColStatus            = "Status"
	ColRequestedAt       = "Requested At"
	ColDecidedAt         = "Decided At"
	ColDecidedBy         = "Decided By"
)

// RequestKey 去重键（候选员工, 申请经理, 对调员工）
type RequestKey struct {
	EmployeeID        string
	InterestedManager string
	EmployeeToSwap    string
}

// Key 返回申请的去重键
func (r *TransferRequest) Key() RequestKey {
	return RequestKey{
		EmployeeID:        r.EmployeeID,
		InterestedManager: r.InterestedManager,
		EmployeeToSwap:    r.EmployeeToSwap,
	}
}

// Involves 员工是否以候选人或对调对象身份出现在该申请中
// 对调对象优先按 ID 匹配，旧数据无 ID 时按姓名匹配
func (r *TransferRequest) Involves(employeeID, employeeName string) bool {
	if r.EmployeeID == employeeID {
		return true
	}
	if r.SwapEmployeeID != "" {
		return r.SwapEmployeeID == employeeID
	}
	return employeeName != "" && strings.EqualFold(strings.TrimSpace(r.EmployeeToSwap), strings.TrimSpace(employeeName))
}

// MergedRow 员工 × 申请 左连接视图的一行；Request 为空表示该员工无申请
type MergedRow struct {
	Employee *Employee
	Request  *TransferRequest
}

// Attr 按列名取值：申请列优先，其余取员工属性
func (m MergedRow) Attr(key string) string {
	switch NormalizeHeader(key) {
	case "interestedmanager":
		if m.Request != nil {
			return m.Request.InterestedManager
		}
		return ""
	case "employeetoswap":
		if m.Request != nil {
			return m.Request.EmployeeToSwap
		}
		return ""
	case "status":
		if m.Request != nil {
			return string(m.Request.Status)
		}
		return ""
	case "requestid":
		if m.Request != nil {
			return fmt.Sprintf("%d", m.Request.RequestID)
		}
		return ""
	}
	return m.Employee.Attr(key)
}
