package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/photo"
)

// PhotoService 员工照片查询
//
// 一级缓存为进程内 map（含占位图结果，进程生命周期内有效），
// 二级缓存为 Redis（仅成功取到的图片）。同一 ID 的并发请求合并为一次拉取。
type PhotoService interface {
	// Get 永远返回一张图片：来源失败时返回占位图
	Get(ctx context.Context, employeeID string) *photo.Image
}

type photoService struct {
	source   photo.Source
	cache    PhotoCache
	redisTTL time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	memory map[string]*photo.Image
	group  singleflight.Group
}

// NewPhotoService 创建 PhotoService 实例；source 为 nil 时始终返回占位图
func NewPhotoService(cfg *config.PhotoConfig, source photo.Source, cache PhotoCache, logger *zap.Logger) PhotoService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &photoService{
		source:   source,
		cache:    cache,
		redisTTL: cfg.RedisTTL,
		timeout:  timeout,
		logger:   logger,
		memory:   make(map[string]*photo.Image),
	}
}

func (s *photoService) Get(ctx context.Context, employeeID string) *photo.Image {
	employeeID = strings.TrimSpace(employeeID)
	if s.source == nil || employeeID == "" {
		return photo.Placeholder()
	}

	s.mu.RLock()
	img, ok := s.memory[employeeID]
	s.mu.RUnlock()
	if ok {
		return img
	}

	v, _, _ := s.group.Do(employeeID, func() (interface{}, error) {
		s.mu.RLock()
		cached, ok := s.memory[employeeID]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}
		img := s.fetch(ctx, employeeID)
		s.mu.Lock()
		s.memory[employeeID] = img
		s.mu.Unlock()
		return img, nil
	})
	return v.(*photo.Image)
}

// fetch Redis → 外部来源 → 占位图
func (s *photoService) fetch(ctx context.Context, employeeID string) *photo.Image {
	if s.cache != nil {
		data, err := s.cache.GetPhoto(ctx, employeeID)
		if err != nil {
			s.logger.Warn("读取照片缓存失败", zap.String("employee_id", employeeID), zap.Error(err))
		} else if data != nil {
			if img, err := photo.Decode(data); err == nil {
				return img
			}
		}
	}

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	data, err := s.source.Fetch(fetchCtx, employeeID)
	if err != nil {
		s.logger.Warn("获取员工照片失败，使用占位图",
			zap.String("employee_id", employeeID),
			zap.String("source", s.source.Name()),
			zap.Error(err),
		)
		return photo.Placeholder()
	}
	img, err := photo.Decode(data)
	if err != nil {
		s.logger.Warn("员工照片内容无法识别，使用占位图", zap.String("employee_id", employeeID), zap.Error(err))
		return photo.Placeholder()
	}

	if s.cache != nil && s.redisTTL > 0 {
		if err := s.cache.SetPhoto(ctx, employeeID, data, s.redisTTL); err != nil {
			s.logger.Warn("写入照片缓存失败", zap.String("employee_id", employeeID), zap.Error(err))
		}
	}
	return img
}
