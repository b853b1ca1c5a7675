package dto

// ── 调岗申请 DTO ──

// CreateRequestRequest 提交申请
type CreateRequestRequest struct {
	Requester     string `json:"requester"      form:"requester"      binding:"required"`
	CandidateID   string `json:"candidate_id"   form:"candidate_id"   binding:"required"`
	CounterpartID string `json:"counterpart_id" form:"counterpart_id" binding:"required"`
}

// RequestListRequest 申请列表筛选
type RequestListRequest struct {
	PaginationRequest
	Status  string `form:"status"  binding:"omitempty,oneof=Pending Approved Rejected pending approved rejected"`
	Manager string `form:"manager"`
	Search  string `form:"search"`
}

// RequestResponse 申请信息
type RequestResponse struct {
	RequestID         int64  `json:"request_id"`
	EmployeeID        string `json:"employee_id"`
	EmployeeName      string `json:"employee_name,omitempty"`
	Email             string `json:"email,omitempty"`
	InterestedManager string `json:"interested_manager"`
	EmployeeToSwap    string `json:"employee_to_swap"`
	SwapEmployeeID    string `json:"swap_employee_id,omitempty"`
	Status            string `json:"status"`
	RequestedAt       string `json:"requested_at,omitempty"`
	DecidedAt         string `json:"decided_at,omitempty"`
	DecidedBy         string `json:"decided_by,omitempty"`
}

// DecideResponse 审批结果
type DecideResponse struct {
	Request  RequestResponse `json:"request"`
	Cascaded []int64         `json:"cascaded_rejections"`
}
