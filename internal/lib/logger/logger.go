// Package logger собирает slog.Logger для сервисов: текстовый вывод для
// локальной среды, JSON для dev и prod, опциональная ротация файла
// и маскирование чувствительных полей.
package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/magabrotheeeer/nutrition-app/internal/config"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// New создаёт логгер для окружения env.
func New(env string, cfg config.Logger) *slog.Logger {
	return NewWithWriter(env, output(cfg))
}

// NewWithWriter создаёт логгер, пишущий в w.
func NewWithWriter(env string, w io.Writer) *slog.Logger {
	var h slog.Handler
	switch env {
	case envProd:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case envDev:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(NewMaskingHandler(h))
}

// NewFile создаёт логгер, который пишет только в файл с ротацией.
// Используется CLI, чтобы логи не смешивались с выводом команд.
// Без файла логи отбрасываются.
func NewFile(env string, cfg config.Logger) *slog.Logger {
	if cfg.LogFile == "" {
		return NewWithWriter(env, io.Discard)
	}
	return NewWithWriter(env, rotating(cfg))
}

func rotating(cfg config.Logger) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	}
}

func output(cfg config.Logger) io.Writer {
	if cfg.LogFile == "" {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, rotating(cfg))
}
