package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

func TestFromValues_DropsBlankRowsAndTrailingCells(t *testing.T) {
	tbl := FromValues([][]string{
		{"", ""},
		{"Employee Id", "Employee Name", ""},
		{"101", " Alice ", "", ""},
		{"", "", ""},
		{"202", "Bob"},
	})

	assert.Equal(t, []string{"Employee Id", "Employee Name"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"101", "Alice"}, tbl.Rows[0])
	assert.Equal(t, []string{"202", "Bob"}, tbl.Rows[1])
}

func TestFromValues_Empty(t *testing.T) {
	tbl := FromValues(nil)
	assert.Empty(t, tbl.Header)
	assert.Empty(t, tbl.Rows)
}

func TestTable_ValuesPadsToHeader(t *testing.T) {
	tbl := &Table{Header: []string{"a", "b", "c"}, Rows: [][]string{{"1"}}}
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"1", "", ""}}, tbl.Values())
}

func TestTable_Revision(t *testing.T) {
	a := &Table{Header: []string{"a"}, Rows: [][]string{{"1"}}}
	b := &Table{Header: []string{"a"}, Rows: [][]string{{"1"}}}
	c := &Table{Header: []string{"a"}, Rows: [][]string{{"2"}}}

	assert.Equal(t, a.Revision(), b.Revision())
	assert.NotEqual(t, a.Revision(), c.Revision())
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, int64(101), cellValue("101"))
	assert.Equal(t, int64(-5), cellValue("-5"))
	assert.Equal(t, "007", cellValue("007"))
	assert.Equal(t, "12a", cellValue("12a"))
	assert.Equal(t, "1234567890123456", cellValue("1234567890123456"))
	assert.Equal(t, "", cellValue(""))
}

func TestXLSXStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.xlsx")
	s := NewXLSXStore(path, zap.NewNop())

	in := &Table{
		Header: []string{"Request Id", "Employee Id", "Interested Manager", "Status"},
		Rows: [][]string{
			{"1101202", "101", "Mgr1", "Pending"},
			{"1101303", "101", "Mgr1", "Rejected"},
		},
	}
	require.NoError(t, s.WriteTable(ctx, "Employee ADS", in))

	out, err := s.ReadTable(ctx, "Employee ADS")
	require.NoError(t, err)
	assert.Equal(t, in.Header, out.Header)
	assert.Equal(t, in.Rows, out.Rows)

	// 覆盖写入更短的表，旧行不应残留
	require.NoError(t, s.WriteTable(ctx, "Employee ADS", &Table{
		Header: in.Header,
		Rows:   [][]string{{"1101202", "101", "Mgr1", "Approved"}},
	}))
	out, err = s.ReadTable(ctx, "Employee ADS")
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "Approved", out.Rows[0][3])
}

func TestXLSXStore_KeepsOtherSheets(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.xlsx")
	s := NewXLSXStore(path, zap.NewNop())

	roster := &Table{Header: []string{"Employee Id", "Employee Name"}, Rows: [][]string{{"101", "A"}}}
	require.NoError(t, s.WriteTable(ctx, "Employee Data", roster))
	require.NoError(t, s.WriteTable(ctx, "Employee ADS", &Table{Header: []string{"Request Id"}}))

	out, err := s.ReadTable(ctx, "Employee Data")
	require.NoError(t, err)
	assert.Equal(t, roster.Rows, out.Rows)
}

func TestXLSXStore_MissingSheetIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.xlsx")
	s := NewXLSXStore(path, zap.NewNop())
	require.NoError(t, s.WriteTable(ctx, "Employee Data", &Table{Header: []string{"Employee Id"}}))

	out, err := s.ReadTable(ctx, "Employee ADS")
	require.NoError(t, err)
	assert.Empty(t, out.Header)
}

func TestXLSXStore_MissingFile(t *testing.T) {
	s := NewXLSXStore(filepath.Join(t.TempDir(), "missing.xlsx"), zap.NewNop())

	_, err := s.ReadTable(context.Background(), "Employee Data")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIO))
}
