package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RNikdata/RAB/config"
)

// NewLogger 根据配置初始化 Zap 日志实例
// json 格式供日志平台采集，console 格式用于本地调试
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	case "", "json":
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "ts"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("无效的日志格式 %q", cfg.Format)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = outputPaths(cfg.Output)

	logger, err := zapCfg.Build(zap.Fields(zap.String("service", "rab")))
	if err != nil {
		return nil, fmt.Errorf("初始化日志器失败: %w", err)
	}
	return logger, nil
}

func outputPaths(output string) []string {
	output = strings.TrimSpace(output)
	if output == "" {
		return []string{"stdout"}
	}
	return []string{output}
}
