package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/RNikdata/RAB/internal/lifecycle"
	"github.com/RNikdata/RAB/internal/model"
	"github.com/RNikdata/RAB/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
type ExportService interface {
	// ExportRequests 导出（筛选后的）申请表
	ExportRequests(ctx context.Context, filter lifecycle.RequestFilter) (*bytes.Buffer, string, error)
	// ExportSummary 导出分组汇总
	ExportSummary(ctx context.Context, keys []string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportRequests — 申请表导出
// ═══════════════════════════════════════════════════════════
//
// 输出格式：单个 Sheet "Requests"，列与申请表一致，按申请编号升序

func (s *exportService) ExportRequests(ctx context.Context, filter lifecycle.RequestFilter) (*bytes.Buffer, string, error) {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return nil, "", err
	}
	reqs := lifecycle.FilterRequests(snap.Requests, filter)

	header := []interface{}{
		model.ColRequestID, model.ColEmployeeID, model.ColEmployeeName, model.ColEmail,
		model.ColInterestedManager, model.ColEmployeeToSwap, model.ColSwapEmployeeID,
		model.ColStatus, model.ColRequestedAt, model.ColDecidedAt, model.ColDecidedBy,
	}
	rows := make([][]interface{}, 0, len(reqs))
	for i := range reqs {
		r := &reqs[i]
		rows = append(rows, []interface{}{
			r.RequestID, r.EmployeeID, r.EmployeeName, r.Email,
			r.InterestedManager, r.EmployeeToSwap, r.SwapEmployeeID,
			string(r.Status), formatTime(r.RequestedAt), formatTime(r.DecidedAt), r.DecidedBy,
		})
	}

	buf, err := s.writeSheet("Requests", header, rows)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("swap_requests_%s.xlsx", s.now().Format("20060102")), nil
}

// ═══════════════════════════════════════════════════════════
// ExportSummary — 分组汇总导出
// ═══════════════════════════════════════════════════════════
//
// 输出格式：分组列 + Employees / Requests / Pending / Approved / Rejected

func (s *exportService) ExportSummary(ctx context.Context, keys []string) (*bytes.Buffer, string, error) {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return nil, "", err
	}
	summary, err := summarize(snap, keys)
	if err != nil {
		return nil, "", err
	}

	header := make([]interface{}, 0, len(summary.Keys)+5)
	for _, k := range summary.Keys {
		header = append(header, k)
	}
	header = append(header, "Employees", "Requests", "Pending", "Approved", "Rejected")

	rows := make([][]interface{}, 0, len(summary.Rows))
	for _, r := range summary.Rows {
		row := make([]interface{}, 0, len(header))
		for _, v := range r.Keys {
			row = append(row, v)
		}
		row = append(row, r.Employees, r.Requests, r.Pending, r.Approved, r.Rejected)
		rows = append(rows, row)
	}

	buf, err := s.writeSheet("Summary", header, rows)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("summary_%s.xlsx", s.now().Format("20060102")), nil
}

// writeSheet 生成单 Sheet 工作簿：加粗表头 + 冻结首行
func (s *exportService) writeSheet(sheetName string, header []interface{}, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		s.logger.Error("写入表头失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)
	_ = f.SetColWidth(sheetName, "A", lastCol, 18)
	_ = f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i := range rows {
		cellName, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cellName, &rows[i]); err != nil {
			s.logger.Error("写入数据行失败", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}
