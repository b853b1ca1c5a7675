package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

// XLSXStore 基于本地 .xlsx 工作簿的表格存储，source 为工作表名
// 用于离线开发与测试；同一进程内的读写通过互斥锁串行化
type XLSXStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewXLSXStore 创建本地工作簿存储
func NewXLSXStore(path string, logger *zap.Logger) *XLSXStore {
	return &XLSXStore{path: path, logger: logger}
}

// ReadTable 读取工作表；工作表不存在时返回空表
func (s *XLSXStore) ReadTable(_ context.Context, source string) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewIOError("xlsx.open", pkgerrors.Wrapf(err, "打开工作簿 %s 失败", s.path))
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(source)
	if err != nil || idx == -1 {
		return &Table{}, nil
	}

	rows, err := f.GetRows(source, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewIOError("xlsx.read", pkgerrors.Wrapf(err, "读取工作表 %q 失败", source))
	}
	return FromValues(rows), nil
}

// WriteTable 整表覆盖写入；先写临时文件再原子替换
func (s *XLSXStore) WriteTable(_ context.Context, source string, t *Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SetSheetName("Sheet1", source); err != nil {
			return apperrors.NewIOError("xlsx.create", pkgerrors.Wrap(err, "初始化工作簿失败"))
		}
	} else if err != nil {
		return apperrors.NewIOError("xlsx.open", pkgerrors.Wrapf(err, "打开工作簿 %s 失败", s.path))
	}
	defer f.Close()

	if err := resetSheet(f, source); err != nil {
		return apperrors.NewIOError("xlsx.reset", pkgerrors.Wrapf(err, "清空工作表 %q 失败", source))
	}

	for i, row := range t.Values() {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			if i == 0 {
				cells[j] = c
				continue
			}
			cells[j] = cellValue(c)
		}
		axis, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(source, axis, &cells); err != nil {
			return apperrors.NewIOError("xlsx.write", pkgerrors.Wrapf(err, "写入工作表 %q 第 %d 行失败", source, i+1))
		}
	}

	if err := s.save(f); err != nil {
		return apperrors.NewIOError("xlsx.save", err)
	}

	s.logger.Info("工作表已整表覆盖", zap.String("path", s.path), zap.String("source", source), zap.Int("rows", len(t.Rows)))
	return nil
}

// resetSheet 工作表不存在则新建，存在则删除全部行
func resetSheet(f *excelize.File, source string) error {
	idx, err := f.GetSheetIndex(source)
	if err != nil {
		return err
	}
	if idx == -1 {
		_, err := f.NewSheet(source)
		return err
	}
	rows, err := f.GetRows(source)
	if err != nil {
		return err
	}
	for i := len(rows); i >= 1; i-- {
		if err := f.RemoveRow(source, i); err != nil {
			return err
		}
	}
	return nil
}

func (s *XLSXStore) save(f *excelize.File) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pkgerrors.Wrapf(err, "创建目录 %s 失败", dir)
	}
	tmp, err := os.CreateTemp(dir, ".board-*.xlsx")
	if err != nil {
		return pkgerrors.Wrap(err, "创建临时文件失败")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return pkgerrors.Wrap(err, "写入临时文件失败")
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.Wrap(err, "关闭临时文件失败")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return pkgerrors.Wrapf(err, "替换工作簿 %s 失败", s.path)
	}
	return nil
}
