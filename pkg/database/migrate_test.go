package database

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

func TestMigrationSource_Embedded(t *testing.T) {
	src, err := migrationSource()
	if err != nil {
		t.Fatalf("加载迁移文件失败: %v", err)
	}
	defer src.Close()

	first, err := src.First()
	if err != nil {
		t.Fatalf("读取首个迁移失败: %v", err)
	}
	if first != 1 {
		t.Errorf("期望首个迁移版本为 1，实际=%d", first)
	}
	r, _, err := src.ReadDown(first)
	if err != nil {
		t.Fatalf("首个迁移缺少 down 文件: %v", err)
	}
	_ = r.Close()
}

func TestCheckVersion(t *testing.T) {
	if v, err := checkVersion(1, false, nil); err != nil || v != 1 {
		t.Errorf("期望 (1, nil)，实际=(%d, %v)", v, err)
	}
	if _, err := checkVersion(0, false, migrate.ErrNilVersion); err != nil {
		t.Errorf("空库不应报错: %v", err)
	}
	if _, err := checkVersion(2, true, nil); !errors.Is(err, ErrDirtyMigration) {
		t.Errorf("期望 ErrDirtyMigration，实际=%v", err)
	}
	if _, err := checkVersion(0, false, errors.New("boom")); err == nil {
		t.Error("读取失败应返回错误")
	}
}
