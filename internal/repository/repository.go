package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/model"
	"github.com/RNikdata/RAB/internal/store"
)

// RosterRepository 员工花名册（只读）
type RosterRepository interface {
	// List 返回按来源顺序排列、按 employee_id 保留首行去重后的员工
	List(ctx context.Context) ([]model.Employee, error)
}

// RequestSnapshot 申请表快照及其版本
type RequestSnapshot struct {
	Requests []model.TransferRequest
	Revision string
}

// RequestRepository 调岗申请表（整表读写）
type RequestRepository interface {
	Load(ctx context.Context) (*RequestSnapshot, error)
	// Save 整表覆盖写入；expectedRevision 非空时先校验版本，不一致返回 ErrOptimisticLock
	Save(ctx context.Context, requests []model.TransferRequest, expectedRevision string) error
}

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Roster  RosterRepository
	Request RequestRepository
}

// NewTableRepository 基于表格存储（Google Sheets / xlsx）创建 Repository 聚合
func NewTableRepository(ts store.TableStore, cfg *config.StoreConfig) *Repository {
	return &Repository{
		Roster:  NewTableRosterRepo(ts, cfg.RosterSource),
		Request: NewTableRequestRepo(ts, cfg.RequestSource),
	}
}

// NewPostgresRepository 基于 PostgreSQL 创建 Repository 聚合
func NewPostgresRepository(db *gorm.DB) *Repository {
	return &Repository{
		Roster:  NewPgRosterRepo(db),
		Request: NewPgRequestRepo(db),
	}
}
