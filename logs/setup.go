package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// logFileTimestampLayout is the timestamp prefix of generated log file names.
	logFileTimestampLayout = "060102_150405"

	// DefaultMaxLogSizeMB is the size threshold at which log files are rotated.
	DefaultMaxLogSizeMB = 1

	// DefaultMaxLogBackups is the number of rotated log files kept on disk.
	DefaultMaxLogBackups = 5

	defaultLogFolderPermissions os.FileMode = 0o755
)

// Options configures Setup.
type Options struct {
	// Name is the log name, part of the generated log file name.
	Name string
	// Folder is the directory where log files are written. Created if missing.
	Folder string
	// ConsoleLevel is the minimum level written to the console.
	ConsoleLevel zapcore.Level
	// FileLevel is the minimum level written to the log file.
	FileLevel zapcore.Level
	// MaxSizeMB is the log file size threshold for rotation. Defaults to DefaultMaxLogSizeMB.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep. Defaults to DefaultMaxLogBackups.
	MaxBackups int
}

// Setup creates a logger writing colored output to the console and plain
// output to a size-rotated file named "<timestamp>_<name>_log.txt" inside
// the given folder. It returns the logger and a teardown function flushing
// buffered entries. The package-wide logger is left untouched: callers
// decide whether to pass the logger around, attach it to a context with
// ToContext, or install it with SetLogger.
func Setup(opts Options) (*zap.Logger, func(), error) {
	if opts.Name == "" {
		opts.Name = "sertit"
	}

	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = DefaultMaxLogSizeMB
	}

	if opts.MaxBackups <= 0 {
		opts.MaxBackups = DefaultMaxLogBackups
	}

	if err := os.MkdirAll(opts.Folder, defaultLogFolderPermissions); err != nil {
		return nil, nil, fmt.Errorf("failed to create log folder: %w", err)
	}

	logFileName := fmt.Sprintf("%s_%s_log.txt",
		time.Now().Format(logFileTimestampLayout), opts.Name)

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Folder, logFileName),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	fileConfig := zap.NewProductionEncoderConfig()
	fileConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	fileConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConfig),
			zapcore.Lock(os.Stderr),
			opts.ConsoleLevel,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(fileConfig),
			zapcore.AddSync(fileWriter),
			opts.FileLevel,
		),
	)

	logger := zap.New(core)

	teardown := func() {
		_ = logger.Sync()
		_ = fileWriter.Close()
	}

	return logger, teardown, nil
}
