package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/api/handler"
	"github.com/RNikdata/RAB/internal/api/router"
	"github.com/RNikdata/RAB/internal/lifecycle"
	"github.com/RNikdata/RAB/internal/photo"
	"github.com/RNikdata/RAB/internal/repository"
	"github.com/RNikdata/RAB/internal/service"
	"github.com/RNikdata/RAB/internal/store"
	"github.com/RNikdata/RAB/internal/web"
	"github.com/RNikdata/RAB/pkg/database"
	"github.com/RNikdata/RAB/pkg/jwt"
	applogger "github.com/RNikdata/RAB/pkg/logger"
	"github.com/RNikdata/RAB/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	flag.Parse()

	// 0. 加载 .env（不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据存储
	repo, db, err := openRepository(cfg, logger)
	if err != nil {
		logger.Fatal("初始化数据存储失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，Token 黑名单、登录限流与照片二级缓存将不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 照片来源
	photoSrc, err := openPhotoSource(&cfg.Photo)
	if err != nil {
		logger.Fatal("初始化照片来源失败", zap.Error(err))
	}

	// 6. 申请规则
	policy, err := lifecycle.NewPolicy(&cfg.Lifecycle)
	if err != nil {
		logger.Fatal("初始化申请规则失败", zap.Error(err))
	}

	// 7. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	deps := service.Deps{
		Repo:        repo,
		Policy:      policy,
		JWT:         jwtMgr,
		PhotoSource: photoSrc,
	}
	// 避免把 nil *redis.Client 装进接口
	if rdb != nil {
		deps.Blacklist = rdb
		deps.PhotoCache = rdb
	}
	svc := service.NewService(cfg, deps, logger)
	h := handler.NewHandler(cfg, svc)

	// 8. 初始化路由
	tmpl, err := web.Templates()
	if err != nil {
		logger.Fatal("解析页面模板失败", zap.Error(err))
	}
	engine := router.Setup(cfg, h, tmpl, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if db != nil {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// openRepository 按 store.driver 创建仓储；仅 postgres 时返回 db
func openRepository(cfg *config.Config, logger *zap.Logger) (*repository.Repository, *gorm.DB, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSheets:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		ss, err := store.NewSheetsStore(ctx, &cfg.Store.Sheets, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("使用 Google Sheets 存储", zap.String("spreadsheet_id", cfg.Store.Sheets.SpreadsheetID))
		return repository.NewTableRepository(ss, &cfg.Store), nil, nil

	case config.StoreDriverXLSX:
		logger.Info("使用本地 Excel 存储", zap.String("path", cfg.Store.XLSX.Path))
		return repository.NewTableRepository(store.NewXLSXStore(cfg.Store.XLSX.Path, logger), &cfg.Store), nil, nil

	case config.StoreDriverPostgres:
		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}
		if _, err := database.RunMigrations(sqlDB, logger); err != nil {
			return nil, nil, err
		}
		logger.Info("数据库连接成功")
		return repository.NewPostgresRepository(db), db, nil
	}
	return nil, nil, fmt.Errorf("不支持的 store.driver %q", cfg.Store.Driver)
}

// openPhotoSource 按 photo.source 创建照片来源；none 时返回 nil
func openPhotoSource(cfg *config.PhotoConfig) (photo.Source, error) {
	switch cfg.Source {
	case config.PhotoSourceHTTP:
		return photo.NewHTTPSource(cfg.URLTemplate, cfg.Timeout), nil
	case config.PhotoSourceS3:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		src, err := photo.NewS3Source(ctx, &cfg.S3)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return nil, nil
}
