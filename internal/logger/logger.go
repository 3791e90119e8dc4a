package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rivo/tview"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a tagged logger. Loggers may be created before InitLogger runs;
// they always write through whatever core is installed at call time.
type Logger struct {
	tag string
}

var (
	base    atomic.Pointer[zap.Logger]
	mu      sync.Mutex
	logFile *os.File
)

func init() {
	base.Store(zap.NewNop())
}

// InitLogger installs the process-wide core. In dev mode entries go to view,
// or to stderr when view is nil. When logPath is set every entry is also
// written as JSON to a timestamped file inside it.
func InitLogger(dev bool, logPath string, view io.Writer) error {
	mu.Lock()
	defer mu.Unlock()

	var cores []zapcore.Core

	if dev {
		var sink zapcore.WriteSyncer
		if view != nil {
			sink = zapcore.AddSync(consoleWriter{view})
		} else {
			sink = zapcore.Lock(os.Stderr)
		}
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, zap.DebugLevel))
	}

	var file *os.File
	if logPath != "" {
		if err := os.MkdirAll(logPath, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		fileName := fmt.Sprintf("medirag_log_%s.log", time.Now().Format("20060102_150405"))
		f, err := os.OpenFile(filepath.Join(logPath, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		file = f
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(file),
			zap.InfoLevel,
		))
	}

	next := zap.NewNop()
	if len(cores) > 0 {
		next = zap.New(zapcore.NewTee(cores...))
	}
	return swapLocked(next, file)
}

func NewLogger(tag string) *Logger {
	return &Logger{tag: tag}
}

func (l *Logger) sugar() *zap.SugaredLogger {
	return base.Load().Named(l.tag).Sugar()
}

func (l *Logger) Debug(v ...interface{}) {
	l.sugar().Debug(v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.sugar().Info(v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.sugar().Warn(v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.sugar().Error(v...)
}

// Infow logs a message with structured key/value pairs.
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar().Infow(msg, keysAndValues...)
}

func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.sugar().Errorw(msg, keysAndValues...)
}

// Close flushes buffered entries and releases the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	return swapLocked(zap.NewNop(), nil)
}

// swapLocked installs next before the previous file is closed, so new log
// calls pick up the new core before the old file goes away.
func swapLocked(next *zap.Logger, file *os.File) error {
	prev := base.Swap(next)
	_ = prev.Sync()

	old := logFile
	logFile = file
	if old == nil {
		return nil
	}
	if err := old.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// consoleWriter escapes tview color tags so log lines containing brackets
// render literally in the debug console.
type consoleWriter struct {
	w io.Writer
}

func (c consoleWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, tview.Escape(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}
