package repository

import (
	"context"

	"github.com/RNikdata/RAB/internal/model"
	"github.com/RNikdata/RAB/internal/store"
	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

// ── 表格存储实现 ──

// tableRosterRepo RosterRepository 的表格实现
type tableRosterRepo struct {
	ts     store.TableStore
	source string
}

// NewTableRosterRepo 创建基于工作表的 RosterRepository
func NewTableRosterRepo(ts store.TableStore, source string) RosterRepository {
	return &tableRosterRepo{ts: ts, source: source}
}

func (r *tableRosterRepo) List(ctx context.Context) ([]model.Employee, error) {
	t, err := r.ts.ReadTable(ctx, r.source)
	if err != nil {
		return nil, err
	}
	return decodeEmployees(t)
}

// tableRequestRepo RequestRepository 的表格实现
type tableRequestRepo struct {
	ts     store.TableStore
	source string
}

// NewTableRequestRepo 创建基于工作表的 RequestRepository
func NewTableRequestRepo(ts store.TableStore, source string) RequestRepository {
	return &tableRequestRepo{ts: ts, source: source}
}

func (r *tableRequestRepo) Load(ctx context.Context) (*RequestSnapshot, error) {
	t, err := r.ts.ReadTable(ctx, r.source)
	if err != nil {
		return nil, err
	}
	requests, err := decodeRequests(t)
	if err != nil {
		return nil, err
	}
	return &RequestSnapshot{Requests: requests, Revision: t.Revision()}, nil
}

// Save 表格存储没有事务，条件写入为"重读比对后写入"，两步之间仍存在极小的竞争窗口
func (r *tableRequestRepo) Save(ctx context.Context, requests []model.TransferRequest, expectedRevision string) error {
	if expectedRevision != "" {
		current, err := r.ts.ReadTable(ctx, r.source)
		if err != nil {
			return err
		}
		if current.Revision() != expectedRevision {
			return apperrors.ErrOptimisticLock
		}
	}
	return r.ts.WriteTable(ctx, r.source, encodeRequests(requests))
}
