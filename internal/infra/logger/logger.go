// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Output string // "stdout", "stderr", or file path
	Level  string // "debug", "info", "warn", "error"
	Format string // "console" or "json"; empty picks console for terminals and json for files
}

// Init initializes the global zerolog logger with the given configuration.
func Init(cfg Config) error {
	level := parseLevel(cfg.Level)

	writer, isTerminal, err := openWriter(cfg.Output)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.TimeOnly
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		parts := strings.Split(file, string(filepath.Separator))
		if len(parts) > 1 {
			return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
		}
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	logger := New(writer, level, useConsole(cfg.Format, isTerminal))
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger

	return nil
}

// New builds a logger writing to w. Caller info is added only at debug level.
func New(w io.Writer, level zerolog.Level, console bool) zerolog.Logger {
	var ctx zerolog.Context
	if console {
		cw := zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
		}
		if level == zerolog.DebugLevel {
			cw.PartsOrder = []string{"time", "level", "message", "caller"}
			cw.FormatCaller = func(i interface{}) string {
				return "(" + i.(string) + ")"
			}
		}
		ctx = zerolog.New(cw).With().Timestamp()
	} else {
		ctx = zerolog.New(w).With().Timestamp()
	}

	if level == zerolog.DebugLevel {
		return ctx.Caller().Logger().Level(level)
	}
	return ctx.Logger().Level(level)
}

func openWriter(output string) (io.Writer, bool, error) {
	switch strings.ToLower(output) {
	case "stdout", "":
		return os.Stdout, true, nil
	case "stderr":
		return os.Stderr, true, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, false, err
		}
		return f, false, nil
	}
}

func useConsole(format string, isTerminal bool) bool {
	switch strings.ToLower(format) {
	case "console":
		return true
	case "json":
		return false
	default:
		return isTerminal
	}
}

// parseLevel parses the log level string.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
