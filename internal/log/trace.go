package log

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TraceConfig configures the rotating trace file.
type TraceConfig struct {
	Path       string // empty disables tracing
	MaxSizeMB  int    // max size in MB before rotation
	MaxBackups int    // max number of rotated files to keep
}

// OpenTrace creates a JSON trace logger writing to a rotating file.
// Every entry carries the given run id so interleaved invocations can be told apart.
// The returned close function flushes and closes the file.
func OpenTrace(cfg TraceConfig, runID string) (*zap.Logger, func() error, error) {
	if cfg.Path == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 3
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create trace dir: %w", err)
	}

	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)

	z := zap.New(core).With(zap.String("run", runID))
	closeFn := func() error {
		_ = z.Sync()
		return w.Close()
	}
	return z, closeFn, nil
}
