package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type FileMode string

const (
	// FileModeAppend appends to an existing log file. This is the default.
	FileModeAppend FileMode = "append"
	// FileModeTruncate truncates an existing log file.
	FileModeTruncate FileMode = "truncate"
	// FileModeRotate rotates the log file once it grows too large.
	FileModeRotate FileMode = "rotate"
)

func ParseFileMode(s string) (FileMode, error) {
	switch FileMode(s) {
	case FileModeAppend, "":
		return FileModeAppend, nil
	case FileModeTruncate, FileModeRotate:
		return FileMode(s), nil
	}
	return "", errors.Errorf("invalid log file mode: %s", s)
}

// OpenFile returns a writer for path. Besides file names, path may be
// "stderr", "stdout" or "/dev/null".
func OpenFile(path string, mode FileMode) (zapcore.WriteSyncer, error) {
	switch path {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "/dev/null":
		return zapcore.AddSync(io.Discard), nil
	}
	switch mode {
	case FileModeRotate:
		return logrotate(path)
	case FileModeTruncate:
		return openFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE)
	default:
		return openFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE)
	}
}

func openFile(path string, flag int) (zapcore.WriteSyncer, error) {
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.Lock(f), nil
}

func logrotate(path string) (zapcore.WriteSyncer, error) {
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return nil, err
	}
	// lumberjack.Logger is safe for concurrent use.
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}), nil
}
