package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/RNikdata/RAB/internal/model"
	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

// ── PostgreSQL 实现 ──

// storeState 申请表版本行（单行，id = 1）
type storeState struct {
	ID        int       `gorm:"primaryKey"`
	Version   int64     `gorm:"not null;default:1"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (storeState) TableName() string { return "request_store_state" }

// pgRosterRepo RosterRepository 的 GORM 实现
type pgRosterRepo struct {
	db *gorm.DB
}

// NewPgRosterRepo 创建 RosterRepository 实例
func NewPgRosterRepo(db *gorm.DB) RosterRepository {
	return &pgRosterRepo{db: db}
}

func (r *pgRosterRepo) List(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id <> ''").
		Order("row_order ASC, employee_id ASC").
		Find(&employees).Error
	if err != nil {
		return nil, apperrors.NewIOError("roster.list", err)
	}
	return employees, nil
}

// pgRequestRepo RequestRepository 的 GORM 实现
type pgRequestRepo struct {
	db *gorm.DB
}

// NewPgRequestRepo 创建 RequestRepository 实例
func NewPgRequestRepo(db *gorm.DB) RequestRepository {
	return &pgRequestRepo{db: db}
}

func (r *pgRequestRepo) Load(ctx context.Context) (*RequestSnapshot, error) {
	var (
		requests []model.TransferRequest
		state    storeState
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("row_order ASC").Find(&requests).Error; err != nil {
			return err
		}
		return tx.FirstOrCreate(&state, storeState{ID: 1, Version: 1, UpdatedAt: time.Now()}).Error
	})
	if err != nil {
		return nil, apperrors.NewIOError("requests.load", err)
	}
	return &RequestSnapshot{
		Requests: requests,
		Revision: strconv.FormatInt(state.Version, 10),
	}, nil
}

// Save 在一个事务内：推进版本号（可选校验） → 清空 → 批量写入
func (r *pgRequestRepo) Save(ctx context.Context, requests []model.TransferRequest, expectedRevision string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&storeState{}).Where("id = ?", 1)
		if expectedRevision != "" {
			expected, err := strconv.ParseInt(expectedRevision, 10, 64)
			if err != nil {
				return apperrors.ErrOptimisticLock
			}
			q = q.Where("version = ?", expected)
		}
		res := q.Updates(map[string]interface{}{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if expectedRevision != "" {
				return apperrors.ErrOptimisticLock
			}
			if err := tx.Create(&storeState{ID: 1, Version: 1, UpdatedAt: time.Now()}).Error; err != nil {
				return err
			}
		}

		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.TransferRequest{}).Error; err != nil {
			return err
		}
		if len(requests) == 0 {
			return nil
		}
		rows := make([]model.TransferRequest, len(requests))
		copy(rows, requests)
		for i := range rows {
			rows[i].RowOrder = i + 1
		}
		return tx.CreateInBatches(rows, 200).Error
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrOptimisticLock) {
		return err
	}
	return apperrors.NewIOError("requests.save", err)
}
