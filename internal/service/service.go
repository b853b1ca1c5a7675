package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/lifecycle"
	"github.com/RNikdata/RAB/internal/photo"
	"github.com/RNikdata/RAB/internal/repository"
	"github.com/RNikdata/RAB/pkg/jwt"
)

// TokenBlacklist 注销 Token 的存储（Redis 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// PhotoCache 照片二级缓存（Redis 实现）
type PhotoCache interface {
	GetPhoto(ctx context.Context, employeeID string) ([]byte, error)
	SetPhoto(ctx context.Context, employeeID string, data []byte, ttl time.Duration) error
}

// Deps Service 层的外部依赖；Redis 未启用时 Blacklist / PhotoCache 为 nil
type Deps struct {
	Repo        *repository.Repository
	Policy      *lifecycle.Policy
	JWT         *jwt.Manager
	Blacklist   TokenBlacklist
	PhotoCache  PhotoCache
	PhotoSource photo.Source
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth    AuthService
	Board   BoardService
	Request RequestService
	Export  ExportService
	Photo   PhotoService
}

// NewService 创建 Service 聚合
func NewService(cfg *config.Config, deps Deps, logger *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(&cfg.Auth, deps.JWT, deps.Blacklist, logger),
		Board:   NewBoardService(cfg, deps.Repo, deps.Policy, logger),
		Request: NewRequestService(&cfg.Store, deps.Repo, deps.Policy, logger),
		Export:  NewExportService(deps.Repo, logger),
		Photo:   NewPhotoService(&cfg.Photo, deps.PhotoSource, deps.PhotoCache, logger),
	}
}

// ── 快照加载 ──

// snapshot 一次交互读取的花名册与申请表
type snapshot struct {
	lifecycle.Snapshot
	Revision string
}

// loadSnapshot 每次交互都重新读取两张表
func loadSnapshot(ctx context.Context, repo *repository.Repository, logger *zap.Logger) (*snapshot, error) {
	employees, err := repo.Roster.List(ctx)
	if err != nil {
		logger.Error("读取员工花名册失败", zap.Error(err))
		return nil, err
	}
	reqs, err := repo.Request.Load(ctx)
	if err != nil {
		logger.Error("读取申请表失败", zap.Error(err))
		return nil, err
	}
	return &snapshot{
		Snapshot: lifecycle.Snapshot{Employees: employees, Requests: reqs.Requests},
		Revision: reqs.Revision,
	}, nil
}
