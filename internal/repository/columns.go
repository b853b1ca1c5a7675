package repository

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/RNikdata/RAB/internal/model"
	"github.com/RNikdata/RAB/internal/store"
	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

// ── 表格边界的列校验与编解码 ──

var (
	ErrMissingColumn    = errors.New("数据源缺少必需列")
	ErrInvalidRequestID = errors.New("申请编号不是整数")
	ErrInvalidStatus    = errors.New("申请状态无效")
)

// 员工列别名（均为 NormalizeHeader 之后的形式）
var employeeAliases = map[string][]string{
	model.ColEmployeeID:    {"employeeid", "empid"},
	model.ColEmployeeName:  {"employeename", "name"},
	model.ColEmail:         {"email", "emailid"},
	model.ColDesignation:   {"designation"},
	model.ColManagerName:   {"managername", "manager"},
	model.ColAccountName:   {"accountname", "account"},
	model.ColBillability:   {"billablestatus", "currentbillability", "billability"},
	model.ColTenure:        {"tenure", "tenureyears"},
	model.ColSkillset:      {"skillset", "skills"},
	model.ColTag:           {"tag"},
	model.ColSNP:           {"snp"},
	model.ColDeliveryOwner: {"deliveryowner"},
	model.ColPnLOwner:      {"p&lowner", "pnlowner", "plowner"},
}

// requestHeader 申请表写回时的列顺序
var requestHeader = []string{
	model.ColRequestID,
	model.ColEmployeeID,
	model.ColEmployeeName,
	model.ColEmail,
	model.ColInterestedManager,
	model.ColEmployeeToSwap,
	model.ColSwapEmployeeID,
	model.ColStatus,
	model.ColRequestedAt,
	model.ColDecidedAt,
	model.ColDecidedBy,
}

var requiredRequestColumns = []string{
	model.ColRequestID,
	model.ColEmployeeID,
	model.ColInterestedManager,
	model.ColEmployeeToSwap,
}

// columnFinder 解析表头，按规范列名（含别名）查找列下标
type columnFinder struct {
	idx map[string]int
}

func newColumnFinder(t *store.Table) columnFinder {
	return columnFinder{idx: t.Index(model.NormalizeHeader)}
}

func (f columnFinder) find(col string, aliases ...string) int {
	if i, ok := f.idx[model.NormalizeHeader(col)]; ok {
		return i
	}
	for _, a := range aliases {
		if i, ok := f.idx[a]; ok {
			return i
		}
	}
	return -1
}

// decodeEmployees 解析花名册：丢弃无 ID 的行，重复 ID 保留首行
func decodeEmployees(t *store.Table) ([]model.Employee, error) {
	if len(t.Header) == 0 {
		return nil, nil
	}
	f := newColumnFinder(t)
	cols := make(map[string]int, len(employeeAliases))
	for col, aliases := range employeeAliases {
		cols[col] = f.find(col, aliases...)
	}
	if cols[model.ColEmployeeID] < 0 {
		return nil, apperrors.NewIOError("roster.decode", fmt.Errorf("%w: %s", ErrMissingColumn, model.ColEmployeeID))
	}

	seen := make(map[string]bool, len(t.Rows))
	employees := make([]model.Employee, 0, len(t.Rows))
	for i, row := range t.Rows {
		id := normalizeID(store.Cell(row, cols[model.ColEmployeeID]))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		attrs := make(map[string]string, len(t.Header))
		for j, h := range t.Header {
			if h == "" {
				continue
			}
			if v := store.Cell(row, j); v != "" {
				attrs[h] = v
			}
		}

		employees = append(employees, model.Employee{
			EmployeeID:        id,
			Name:              store.Cell(row, cols[model.ColEmployeeName]),
			Email:             store.Cell(row, cols[model.ColEmail]),
			Designation:       store.Cell(row, cols[model.ColDesignation]),
			ManagerName:       store.Cell(row, cols[model.ColManagerName]),
			AccountName:       store.Cell(row, cols[model.ColAccountName]),
			BillabilityStatus: store.Cell(row, cols[model.ColBillability]),
			TenureYears:       store.Cell(row, cols[model.ColTenure]),
			Skillset:          store.Cell(row, cols[model.ColSkillset]),
			Tag:               store.Cell(row, cols[model.ColTag]),
			SNP:               store.Cell(row, cols[model.ColSNP]),
			DeliveryOwner:     store.Cell(row, cols[model.ColDeliveryOwner]),
			PnLOwner:          store.Cell(row, cols[model.ColPnLOwner]),
			Attributes:        attrs,
			RowOrder:          i + 1,
		})
	}
	return employees, nil
}

// decodeRequests 解析申请表：空表视为无申请，Request Id 为空的行忽略
func decodeRequests(t *store.Table) ([]model.TransferRequest, error) {
	if len(t.Header) == 0 {
		return nil, nil
	}
	f := newColumnFinder(t)
	for _, col := range requiredRequestColumns {
		if f.find(col) < 0 {
			return nil, apperrors.NewIOError("requests.decode", fmt.Errorf("%w: %s", ErrMissingColumn, col))
		}
	}

	var (
		cRequestID   = f.find(model.ColRequestID)
		cEmployeeID  = f.find(model.ColEmployeeID)
		cName        = f.find(model.ColEmployeeName, employeeAliases[model.ColEmployeeName]...)
		cEmail       = f.find(model.ColEmail)
		cManager     = f.find(model.ColInterestedManager)
		cToSwap      = f.find(model.ColEmployeeToSwap)
		cSwapID      = f.find(model.ColSwapEmployeeID)
		cStatus      = f.find(model.ColStatus)
		cRequestedAt = f.find(model.ColRequestedAt)
		cDecidedAt   = f.find(model.ColDecidedAt)
		cDecidedBy   = f.find(model.ColDecidedBy)
	)

	requests := make([]model.TransferRequest, 0, len(t.Rows))
	for i, row := range t.Rows {
		rawID := store.Cell(row, cRequestID)
		if rawID == "" {
			continue
		}
		id, err := parseRequestID(rawID)
		if err != nil {
			return nil, apperrors.NewIOError("requests.decode", fmt.Errorf("第 %d 行: %w", i+2, err))
		}
		status, err := model.ParseStatus(store.Cell(row, cStatus))
		if err != nil {
			return nil, apperrors.NewIOError("requests.decode", fmt.Errorf("第 %d 行: %w: %v", i+2, ErrInvalidStatus, err))
		}

		requests = append(requests, model.TransferRequest{
			RowOrder:          len(requests) + 1,
			RequestID:         id,
			EmployeeID:        normalizeID(store.Cell(row, cEmployeeID)),
			EmployeeName:      store.Cell(row, cName),
			Email:             store.Cell(row, cEmail),
			InterestedManager: store.Cell(row, cManager),
			EmployeeToSwap:    store.Cell(row, cToSwap),
			SwapEmployeeID:    normalizeID(store.Cell(row, cSwapID)),
			Status:            status,
			RequestedAt:       parseTime(store.Cell(row, cRequestedAt)),
			DecidedAt:         parseTime(store.Cell(row, cDecidedAt)),
			DecidedBy:         store.Cell(row, cDecidedBy),
		})
	}
	return requests, nil
}

// encodeRequests 申请列表 → 写回用表格
func encodeRequests(requests []model.TransferRequest) *store.Table {
	t := &store.Table{Header: append([]string(nil), requestHeader...)}
	for _, r := range requests {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.RequestID, 10),
			r.EmployeeID,
			r.EmployeeName,
			r.Email,
			r.InterestedManager,
			r.EmployeeToSwap,
			r.SwapEmployeeID,
			string(r.Status),
			formatTime(r.RequestedAt),
			formatTime(r.DecidedAt),
			r.DecidedBy,
		})
	}
	return t
}

// parseRequestID 兼容表格把整数存成 "1101202.0" 的情况
func parseRequestID(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	fv, err := strconv.ParseFloat(s, 64)
	if err != nil || fv != math.Trunc(fv) || math.Abs(fv) > 1<<53 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRequestID, s)
	}
	return int64(fv), nil
}

// normalizeID 员工 ID 统一为文本，去掉表格数值化带来的 ".0"
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".0") {
		if _, err := strconv.ParseInt(strings.TrimSuffix(s, ".0"), 10, 64); err == nil {
			return strings.TrimSuffix(s, ".0")
		}
	}
	return s
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
