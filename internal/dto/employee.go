package dto

// ── 员工模块 DTO ──

// EmployeeListRequest 员工列表筛选
type EmployeeListRequest struct {
	PaginationRequest
	Account     []string `form:"account"`
	Billability []string `form:"billability"`
	Tag         []string `form:"tag"`
	Search      string   `form:"search"`
}

// EmployeeResponse 员工信息
type EmployeeResponse struct {
	EmployeeID        string            `json:"employee_id"`
	Name              string            `json:"name"`
	Email             string            `json:"email,omitempty"`
	Designation       string            `json:"designation,omitempty"`
	ManagerName       string            `json:"manager_name,omitempty"`
	AccountName       string            `json:"account_name,omitempty"`
	BillabilityStatus string            `json:"billability_status,omitempty"`
	TenureYears       string            `json:"tenure_years,omitempty"`
	Skillset          string            `json:"skillset,omitempty"`
	Tag               string            `json:"tag,omitempty"`
	SNP               bool              `json:"snp"`
	DeliveryOwner     string            `json:"delivery_owner,omitempty"`
	PnLOwner          string            `json:"pnl_owner,omitempty"`
	PhotoURL          string            `json:"photo_url"`
	Attributes        map[string]string `json:"attributes,omitempty"`
}
