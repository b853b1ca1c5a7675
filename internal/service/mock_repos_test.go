package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RNikdata/RAB/internal/model"
	"github.com/RNikdata/RAB/internal/repository"
	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

// ── Mock RosterRepository ──

type mockRosterRepo struct {
	employees []model.Employee
	err       error
}

func (m *mockRosterRepo) List(_ context.Context) ([]model.Employee, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]model.Employee(nil), m.employees...), nil
}

// ── Mock RequestRepository ──

type mockRequestRepo struct {
	requests []model.TransferRequest
	version  int
	loadErr  error
	saveErr  error
	saves    int
	lastExp  string
	// onSave 在写入前执行一次，模拟并发写入者
	onSave func(m *mockRequestRepo)
}

func (m *mockRequestRepo) Load(_ context.Context) (*repository.RequestSnapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return &repository.RequestSnapshot{
		Requests: append([]model.TransferRequest(nil), m.requests...),
		Revision: strconv.Itoa(m.version),
	}, nil
}

func (m *mockRequestRepo) Save(_ context.Context, requests []model.TransferRequest, expectedRevision string) error {
	m.lastExp = expectedRevision
	if hook := m.onSave; hook != nil {
		m.onSave = nil
		hook(m)
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	if expectedRevision != "" && expectedRevision != strconv.Itoa(m.version) {
		return apperrors.ErrOptimisticLock
	}
	m.saves++
	m.version++
	m.requests = append([]model.TransferRequest(nil), requests...)
	return nil
}

func (m *mockRequestRepo) find(id int64) *model.TransferRequest {
	for i := range m.requests {
		if m.requests[i].RequestID == id {
			return &m.requests[i]
		}
	}
	return nil
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	tokens map[string]time.Duration
	err    error
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{tokens: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.tokens[jti] = ttl
	return nil
}

// ── Mock PhotoCache ──

type mockPhotoCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockPhotoCache() *mockPhotoCache {
	return &mockPhotoCache{data: make(map[string][]byte)}
}

func (m *mockPhotoCache) GetPhoto(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[id], nil
}

func (m *mockPhotoCache) SetPhoto(_ context.Context, id string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = data
	m.sets++
	return nil
}

// ── Mock photo.Source ──

type mockPhotoSource struct {
	photos map[string][]byte
	calls  int32
	delay  time.Duration
}

func (m *mockPhotoSource) Name() string { return "mock" }

func (m *mockPhotoSource) Fetch(_ context.Context, id string) ([]byte, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if data, ok := m.photos[id]; ok {
		return data, nil
	}
	return nil, errors.New("照片不存在")
}
