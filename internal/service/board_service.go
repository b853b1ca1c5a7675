package service

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/dto"
	"github.com/RNikdata/RAB/internal/lifecycle"
	"github.com/RNikdata/RAB/internal/model"
	"github.com/RNikdata/RAB/internal/repository"
)

// DefaultSummaryKeys 汇总页默认分组
var DefaultSummaryKeys = []string{model.ColManagerName}

// BoardService 看板只读视图
type BoardService interface {
	ListEmployees(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error)
	KPIs(ctx context.Context) (*lifecycle.KPIs, error)
	Options(ctx context.Context) (*lifecycle.Options, error)
	Summary(ctx context.Context, keys []string) (*dto.SummaryResponse, error)
	// View 读取一次快照，计算页面所需的全部视图
	View(ctx context.Context, q *dto.BoardQuery) (*dto.BoardView, error)
}

type boardService struct {
	cfg    *config.Config
	repo   *repository.Repository
	policy *lifecycle.Policy
	logger *zap.Logger
}

// NewBoardService 创建 BoardService 实例
func NewBoardService(cfg *config.Config, repo *repository.Repository, policy *lifecycle.Policy, logger *zap.Logger) BoardService {
	return &boardService{cfg: cfg, repo: repo, policy: policy, logger: logger}
}

func (s *boardService) ListEmployees(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error) {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return nil, 0, err
	}
	filtered := lifecycle.FilterEmployees(snap.Employees, lifecycle.EmployeeFilter{
		Accounts:    req.Account,
		Billability: req.Billability,
		Tags:        req.Tag,
		Search:      req.Search,
	})
	page := dto.Paginate(filtered, req.PaginationRequest)
	return toEmployeeResponses(page), int64(len(filtered)), nil
}

func (s *boardService) KPIs(ctx context.Context) (*lifecycle.KPIs, error) {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return nil, err
	}
	k := lifecycle.ComputeKPIs(snap.Employees, snap.Requests)
	return &k, nil
}

func (s *boardService) Options(ctx context.Context) (*lifecycle.Options, error) {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return nil, err
	}
	opts := lifecycle.BuildOptions(s.policy, snap.Snapshot, s.requesterNames())
	return &opts, nil
}

func (s *boardService) Summary(ctx context.Context, keys []string) (*dto.SummaryResponse, error) {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return nil, err
	}
	return summarize(snap, keys)
}

// ────────────────────── View ──────────────────────

func (s *boardService) View(ctx context.Context, q *dto.BoardQuery) (*dto.BoardView, error) {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return nil, err
	}

	view := &dto.BoardView{
		KPIs:    lifecycle.ComputeKPIs(snap.Employees, snap.Requests),
		Options: lifecycle.BuildOptions(s.policy, snap.Snapshot, s.requesterNames()),
	}
	view.Employees = toEmployeeResponses(lifecycle.FilterEmployees(snap.Employees, lifecycle.EmployeeFilter{
		Accounts:    q.Account,
		Billability: q.Billability,
		Tags:        q.Tag,
		Search:      q.Search,
	}))

	// 非法状态按"全部"处理，页面不因筛选参数报错
	var status model.RequestStatus
	if q.Status != "" {
		status, _ = model.ParseStatus(q.Status)
	}
	reqs := lifecycle.FilterRequests(snap.Requests, lifecycle.RequestFilter{
		Status:  status,
		Manager: q.Manager,
		Search:  q.RequestSearch,
	})
	view.Requests = make([]dto.RequestResponse, 0, len(reqs))
	for i := range reqs {
		view.Requests = append(view.Requests, toRequestResponse(&reqs[i]))
	}

	keys := q.Keys
	if len(keys) == 0 {
		keys = DefaultSummaryKeys
	}
	if view.Summary, err = summarize(snap, keys); err != nil {
		view.SummaryErr = err.Error()
	}
	return view, nil
}

// requesterNames 配置中可提交申请的用户显示名
func (s *boardService) requesterNames() []string {
	var names []string
	for _, u := range s.cfg.Auth.Users {
		if u.Role == "viewer" {
			continue
		}
		if u.DisplayName != "" {
			names = append(names, u.DisplayName)
		}
	}
	return names
}

// ── 辅助函数 ──

func summarize(snap *snapshot, keys []string) (*dto.SummaryResponse, error) {
	rows, err := lifecycle.Summarize(lifecycle.Merge(snap.Employees, snap.Requests), keys)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []lifecycle.SummaryRow{}
	}
	return &dto.SummaryResponse{Keys: keys, Rows: rows}, nil
}

func toEmployeeResponses(employees []model.Employee) []dto.EmployeeResponse {
	out := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		e := &employees[i]
		out = append(out, dto.EmployeeResponse{
			EmployeeID:        e.EmployeeID,
			Name:              e.Name,
			Email:             e.Email,
			Designation:       e.Designation,
			ManagerName:       e.ManagerName,
			AccountName:       e.AccountName,
			BillabilityStatus: e.BillabilityStatus,
			TenureYears:       e.TenureYears,
			Skillset:          e.Skillset,
			Tag:               e.Tag,
			SNP:               e.IsSNP(),
			DeliveryOwner:     e.DeliveryOwner,
			PnLOwner:          e.PnLOwner,
			PhotoURL:          PhotoPath(e.EmployeeID),
			Attributes:        e.Attributes,
		})
	}
	return out
}

// PhotoPath 员工照片的站内路径
func PhotoPath(employeeID string) string {
	return fmt.Sprintf("/api/v1/employees/%s/photo", url.PathEscape(employeeID))
}
