// Package store 提供表格型外部存储（Google Sheets / 本地 xlsx）的整表读写。
package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Table 带固定表头的二维表
type Table struct {
	Header []string
	Rows   [][]string
}

// TableStore 表格存储：按数据源（工作表名）整表读取与整表覆盖写入
type TableStore interface {
	ReadTable(ctx context.Context, source string) (*Table, error)
	WriteTable(ctx context.Context, source string, t *Table) error
}

// FromValues 由原始单元格构造 Table：首行为表头，丢弃全空行并去除行尾空白单元格
func FromValues(values [][]string) *Table {
	t := &Table{}
	for len(values) > 0 && isBlankRow(values[0]) {
		values = values[1:]
	}
	if len(values) == 0 {
		return t
	}

	t.Header = trimRow(values[0])
	for _, row := range values[1:] {
		if isBlankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, trimRow(row))
	}
	return t
}

// Values 转为写入用二维数组（含表头），每行补齐到表头宽度
func (t *Table) Values() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Header...))
	for _, row := range t.Rows {
		r := make([]string, len(t.Header))
		copy(r, row)
		out = append(out, r)
	}
	return out
}

// Index 表头列名 → 列下标（按 normalize 归一化后匹配）
func (t *Table) Index(normalize func(string) string) map[string]int {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		key := normalize(h)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// Revision 表内容指纹，用于条件写入的版本比较
func (t *Table) Revision() string {
	d := xxhash.New()
	writeRow := func(row []string) {
		for _, c := range row {
			_, _ = d.WriteString(c)
			_, _ = d.Write([]byte{0x1f})
		}
		_, _ = d.Write([]byte{0x1e})
	}
	writeRow(t.Header)
	for _, row := range t.Rows {
		writeRow(row)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// Cell 安全地取单元格，越界返回空串
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// cellValue 整数字面量按数值写回，其余按文本写回
func cellValue(s string) interface{} {
	if n, ok := integerLiteral(s); ok {
		return n
	}
	return s
}

func integerLiteral(s string) (int64, bool) {
	if s == "" || len(s) > 15 {
		return 0, false
	}
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimRow(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	for i := 0; i < end; i++ {
		out[i] = strings.TrimSpace(row[i])
	}
	return out
}
