package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/dto"
	"github.com/RNikdata/RAB/internal/lifecycle"
	"github.com/RNikdata/RAB/internal/model"
	"github.com/RNikdata/RAB/internal/repository"
	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

// RequestService 调岗申请业务接口
//
// 每个写操作：重新读取两张表 → 纯函数计算新表 → 整表写回。
// 写入失败不重试，调用方应视为未提交并刷新后重试。
type RequestService interface {
	List(ctx context.Context, req *dto.RequestListRequest) ([]dto.RequestResponse, int64, error)
	Submit(ctx context.Context, req *dto.CreateRequestRequest) (*dto.RequestResponse, error)
	Decide(ctx context.Context, requestID int64, decision lifecycle.Decision, actor string) (*dto.DecideResponse, error)
	Remove(ctx context.Context, requestID int64, actor string) error
}

type requestService struct {
	cfg    *config.StoreConfig
	repo   *repository.Repository
	policy *lifecycle.Policy
	logger *zap.Logger
}

// NewRequestService 创建 RequestService 实例
func NewRequestService(
	cfg *config.StoreConfig,
	repo *repository.Repository,
	policy *lifecycle.Policy,
	logger *zap.Logger,
) RequestService {
	return &requestService{cfg: cfg, repo: repo, policy: policy, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *requestService) List(ctx context.Context, req *dto.RequestListRequest) ([]dto.RequestResponse, int64, error) {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return nil, 0, err
	}

	var status model.RequestStatus
	if req.Status != "" {
		if status, err = model.ParseStatus(req.Status); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}
	filtered := lifecycle.FilterRequests(snap.Requests, lifecycle.RequestFilter{
		Status:  status,
		Manager: req.Manager,
		Search:  req.Search,
	})

	page := dto.Paginate(filtered, req.PaginationRequest)
	list := make([]dto.RequestResponse, 0, len(page))
	for i := range page {
		list = append(list, toRequestResponse(&page[i]))
	}
	return list, int64(len(filtered)), nil
}

// ────────────────────── Submit ──────────────────────

func (s *requestService) Submit(ctx context.Context, req *dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return nil, err
	}

	next, row, err := lifecycle.Submit(s.policy, snap.Snapshot, lifecycle.SubmitInput{
		Requester:     req.Requester,
		CandidateID:   req.CandidateID,
		CounterpartID: req.CounterpartID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, next, snap.Revision); err != nil {
		return nil, err
	}

	s.logger.Info("提交调岗申请",
		zap.Int64("request_id", row.RequestID),
		zap.String("employee_id", row.EmployeeID),
		zap.String("swap_employee_id", row.SwapEmployeeID),
		zap.String("requester", row.InterestedManager),
	)
	resp := toRequestResponse(row)
	return &resp, nil
}

// ────────────────────── Decide ──────────────────────

func (s *requestService) Decide(ctx context.Context, requestID int64, decision lifecycle.Decision, actor string) (*dto.DecideResponse, error) {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return nil, err
	}

	next, result, err := lifecycle.Decide(s.policy, snap.Snapshot, requestID, decision, actor)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, next, snap.Revision); err != nil {
		return nil, err
	}

	s.logger.Info("审批调岗申请",
		zap.Int64("request_id", requestID),
		zap.String("decision", string(decision)),
		zap.String("actor", actor),
		zap.Int64s("cascaded", result.Cascaded),
	)
	cascaded := result.Cascaded
	if cascaded == nil {
		cascaded = []int64{}
	}
	return &dto.DecideResponse{
		Request:  toRequestResponse(&result.Request),
		Cascaded: cascaded,
	}, nil
}

// ────────────────────── Remove ──────────────────────

func (s *requestService) Remove(ctx context.Context, requestID int64, actor string) error {
	snap, err := loadSnapshot(ctx, s.repo, s.logger)
	if err != nil {
		return err
	}

	next, err := lifecycle.Remove(snap.Requests, requestID)
	if err != nil {
		return err
	}
	if err := s.save(ctx, next, snap.Revision); err != nil {
		return err
	}

	s.logger.Info("删除调岗申请", zap.Int64("request_id", requestID), zap.String("actor", actor))
	return nil
}

// save 整表写回；开启 conditional_write 时带上读取时的版本
func (s *requestService) save(ctx context.Context, next []model.TransferRequest, revision string) error {
	expected := ""
	if s.cfg.ConditionalWrite {
		expected = revision
	}
	if err := s.repo.Request.Save(ctx, next, expected); err != nil {
		s.logger.Error("写回申请表失败", zap.Error(err), zap.Int("rows", len(next)))
		return err
	}
	return nil
}

// ── 辅助函数 ──

func toRequestResponse(r *model.TransferRequest) dto.RequestResponse {
	return dto.RequestResponse{
		RequestID:         r.RequestID,
		EmployeeID:        r.EmployeeID,
		EmployeeName:      r.EmployeeName,
		Email:             r.Email,
		InterestedManager: r.InterestedManager,
		EmployeeToSwap:    r.EmployeeToSwap,
		SwapEmployeeID:    r.SwapEmployeeID,
		Status:            string(r.Status),
		RequestedAt:       formatTime(r.RequestedAt),
		DecidedAt:         formatTime(r.DecidedAt),
		DecidedBy:         r.DecidedBy,
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
