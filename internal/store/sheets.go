package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/RNikdata/RAB/config"
	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

// SheetsStore 基于 Google Sheets API v4 的表格存储，source 为工作表（tab）名
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
	logger        *zap.Logger
}

// NewSheetsStore 使用服务账号凭据创建 Sheets 客户端
func NewSheetsStore(ctx context.Context, cfg *config.SheetsConfig, logger *zap.Logger) (*SheetsStore, error) {
	var opt option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		jwtCfg, err := google.JWTConfigFromJSON([]byte(cfg.CredentialsJSON), sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("解析服务账号凭据失败: %w", err)
		}
		opt = option.WithHTTPClient(jwtCfg.Client(ctx))
	default:
		opt = option.WithCredentialsFile(cfg.CredentialsFile)
	}

	svc, err := sheets.NewService(ctx, opt, option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("创建 Sheets 客户端失败: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		timeout:       timeout,
		logger:        logger,
	}, nil
}

// ReadTable 读取整个工作表
func (s *SheetsStore) ReadTable(ctx context.Context, source string) (*Table, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, sheetRange(source)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, apperrors.NewIOError("sheets.read", pkgerrors.Wrapf(err, "读取工作表 %q 失败", source))
	}

	values := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		values[i] = make([]string, len(row))
		for j, v := range row {
			values[i][j] = formatSheetValue(v)
		}
	}

	t := FromValues(values)
	s.logger.Debug("读取工作表完成", zap.String("source", source), zap.Int("rows", len(t.Rows)))
	return t, nil
}

// WriteTable 清空工作表后整表写入
func (s *SheetsStore) WriteTable(ctx context.Context, source string, t *Table) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, sheetRange(source), &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return apperrors.NewIOError("sheets.clear", pkgerrors.Wrapf(err, "清空工作表 %q 失败", source))
	}

	rows := t.Values()
	data := make([][]interface{}, len(rows))
	for i, row := range rows {
		data[i] = make([]interface{}, len(row))
		for j, c := range row {
			if i == 0 {
				data[i][j] = c
				continue
			}
			data[i][j] = cellValue(c)
		}
	}

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, sheetRange(source)+"!A1", &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         data,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return apperrors.NewIOError("sheets.update", pkgerrors.Wrapf(err, "写入工作表 %q 失败", source))
	}

	s.logger.Info("工作表已整表覆盖", zap.String("source", source), zap.Int("rows", len(t.Rows)))
	return nil
}

func sheetRange(source string) string {
	return "'" + strings.ReplaceAll(source, "'", "''") + "'"
}

// formatSheetValue UNFORMATTED_VALUE 下数字以 float64 返回，整数去掉小数部分
func formatSheetValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
