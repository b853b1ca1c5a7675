package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RNikdata/RAB/config"
)

var testPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
}

func TestPhotoService_CachesPerID(t *testing.T) {
	src := &mockPhotoSource{photos: map[string][]byte{"101": testPNG}}
	svc := NewPhotoService(&config.PhotoConfig{Timeout: time.Second}, src, nil, zap.NewNop())

	img := svc.Get(context.Background(), "101")
	if img.Placeholder || img.ContentType != "image/png" {
		t.Fatalf("期望 PNG 图片，实际=%+v", img.ContentType)
	}
	svc.Get(context.Background(), "101")
	if atomic.LoadInt32(&src.calls) != 1 {
		t.Errorf("同一 ID 只应拉取一次，实际=%d", src.calls)
	}
}

func TestPhotoService_PlaceholderCached(t *testing.T) {
	src := &mockPhotoSource{photos: map[string][]byte{"202": []byte("<html>404</html>")}}
	svc := NewPhotoService(&config.PhotoConfig{}, src, nil, zap.NewNop())

	for _, id := range []string{"999", "999", "202"} {
		if img := svc.Get(context.Background(), id); !img.Placeholder {
			t.Errorf("ID %s 期望占位图", id)
		}
	}
	if atomic.LoadInt32(&src.calls) != 2 {
		t.Errorf("失败结果也应缓存，实际拉取=%d", src.calls)
	}
}

func TestPhotoService_NoSource(t *testing.T) {
	svc := NewPhotoService(&config.PhotoConfig{}, nil, nil, zap.NewNop())
	if img := svc.Get(context.Background(), "101"); !img.Placeholder {
		t.Error("未配置来源时应返回占位图")
	}
}

func TestPhotoService_RedisCache(t *testing.T) {
	cache := newMockPhotoCache()
	src := &mockPhotoSource{photos: map[string][]byte{"101": testPNG}}
	cfg := &config.PhotoConfig{RedisTTL: time.Hour}

	NewPhotoService(cfg, src, cache, zap.NewNop()).Get(context.Background(), "101")
	if cache.sets != 1 {
		t.Fatalf("成功的图片应写入 Redis，实际=%d", cache.sets)
	}

	// 新进程：内存缓存为空，直接命中 Redis
	img := NewPhotoService(cfg, src, cache, zap.NewNop()).Get(context.Background(), "101")
	if img.Placeholder || atomic.LoadInt32(&src.calls) != 1 {
		t.Errorf("应命中 Redis 缓存，实际拉取=%d", src.calls)
	}
}

func TestPhotoService_ConcurrentFetchCollapsed(t *testing.T) {
	src := &mockPhotoSource{photos: map[string][]byte{"101": testPNG}, delay: 50 * time.Millisecond}
	svc := NewPhotoService(&config.PhotoConfig{}, src, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Get(context.Background(), "101")
		}()
	}
	wg.Wait()
	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Errorf("并发请求应合并为一次拉取，实际=%d", n)
	}
}
