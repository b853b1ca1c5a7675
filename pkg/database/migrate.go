package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsTable 迁移版本表，与同库其他服务的 schema_migrations 区分
const MigrationsTable = "rab_schema_migrations"

// ErrDirtyMigration 上次迁移中途失败，需要人工修复后再启动
var ErrDirtyMigration = errors.New("数据库迁移处于 dirty 状态")

func migrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("加载迁移文件失败: %w", err)
	}
	return src, nil
}

// RunMigrations 执行看板表结构迁移，返回迁移后的版本
func RunMigrations(db *sql.DB, logger *zap.Logger) (uint, error) {
	src, err := migrationSource()
	if err != nil {
		return 0, err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return 0, fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	before, _, _ := m.Version()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("执行迁移失败: %w", err)
	}

	version, err := checkVersion(m.Version())
	if err != nil {
		return 0, err
	}
	logger.Info("数据库迁移完成",
		zap.Uint("from", before),
		zap.Uint("version", version),
		zap.String("table", MigrationsTable),
	)
	return version, nil
}

func checkVersion(version uint, dirty bool, err error) (uint, error) {
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("读取迁移版本失败: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("%w: version=%d", ErrDirtyMigration, version)
	}
	return version, nil
}
