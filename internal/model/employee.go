package model

import "strings"

// Employee 员工花名册 — 对应 employees（只读）
type Employee struct {
	EmployeeID        string            `gorm:"type:varchar(32);primaryKey" json:"employee_id"`
	Name              string            `gorm:"type:varchar(200)"           json:"name"`
	Email             string            `gorm:"type:varchar(255)"           json:"email,omitempty"`
	Designation       string            `gorm:"type:varchar(200)"           json:"designation,omitempty"`
	ManagerName       string            `gorm:"type:varchar(200)"           json:"manager_name,omitempty"`
	AccountName       string            `gorm:"type:varchar(200)"           json:"account_name,omitempty"`
	BillabilityStatus string            `gorm:"type:varchar(100)"           json:"billability_status,omitempty"`
	TenureYears       string            `gorm:"type:varchar(32)"            json:"tenure_years,omitempty"`
	Skillset          string            `gorm:"type:text"                   json:"skillset,omitempty"`
	Tag               string            `gorm:"type:varchar(100)"           json:"tag,omitempty"`
	SNP               string            `gorm:"column:snp;type:varchar(16)" json:"snp,omitempty"`
	DeliveryOwner     string            `gorm:"type:varchar(200)"           json:"delivery_owner,omitempty"`
	PnLOwner          string            `gorm:"column:pnl_owner;type:varchar(200)" json:"pnl_owner,omitempty"`
	Attributes        map[string]string `gorm:"type:jsonb;serializer:json"  json:"attributes,omitempty"` // 原始列（表头 → 值）
	RowOrder          int               `gorm:"not null;default:0"          json:"-"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// 花名册规范列名
const (
	ColEmployeeID    = "Employee Id"
	ColEmployeeName  = "Employee Name"
	ColEmail         = "Email"
	ColDesignation   = "Designation"
	ColManagerName   = "Manager Name"
	ColAccountName   = "Account Name"
	ColBillability   = "Billable Status"
	ColTenure        = "Tenure"
	ColSkillset      = "Skillset"
	ColTag           = "Tag"
	ColSNP           = "SNP"
	ColDeliveryOwner = "Delivery Owner"
	ColPnLOwner      = "P&L Owner"
)

// Attr 按列名取属性值，先匹配规范列（含别名），再回落到原始列
func (e *Employee) Attr(key string) string {
	switch NormalizeHeader(key) {
	case "employeeid":
		return e.EmployeeID
	case "employeename", "name":
		return e.Name
	case "email":
		return e.Email
	case "designation":
		return e.Designation
	case "managername", "manager":
		return e.ManagerName
	case "accountname", "account":
		return e.AccountName
	case "billablestatus", "currentbillability", "billability":
		return e.BillabilityStatus
	case "tenure", "tenureyears":
		return e.TenureYears
	case "skillset", "skills":
		return e.Skillset
	case "tag":
		return e.Tag
	case "snp":
		return e.SNP
	case "deliveryowner":
		return e.DeliveryOwner
	case "p&lowner", "pnlowner", "plowner":
		return e.PnLOwner
	}
	if v, ok := e.Attributes[key]; ok {
		return v
	}
	want := NormalizeHeader(key)
	for k, v := range e.Attributes {
		if NormalizeHeader(k) == want {
			return v
		}
	}
	return ""
}

// IsSNP SNP 标记列为 1 / 1.0 / true / yes
func (e *Employee) IsSNP() bool {
	switch strings.ToLower(strings.TrimSpace(e.SNP)) {
	case "1", "1.0", "true", "yes", "y":
		return true
	}
	return false
}

// Label 下拉框展示文本 "101 - Alice"
func (e *Employee) Label() string {
	return e.EmployeeID + " - " + e.Name
}

// NormalizeHeader 表头归一化：小写并去除空白、下划线与括号
func NormalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		switch r {
		case ' ', '\t', '_', '-', '(', ')', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
