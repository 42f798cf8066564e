package logger

import (
	"context"
	"log/slog"
	"strings"
)

const masked = "***"

var sensitiveKeys = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"payment_token",
}

// MaskingHandler оборачивает slog.Handler и скрывает значения чувствительных атрибутов.
type MaskingHandler struct {
	next slog.Handler
}

// NewMaskingHandler создаёт маскирующий обработчик поверх next.
func NewMaskingHandler(next slog.Handler) *MaskingHandler {
	return &MaskingHandler{next: next}
}

func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, maskAttr(a))
	}
	return &MaskingHandler{next: h.next.WithAttrs(out)}
}

func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{next: h.next.WithGroup(name)}
}

func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(maskAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		attrs := make([]any, 0, len(group))
		for _, g := range group {
			attrs = append(attrs, maskAttr(g))
		}
		return slog.Group(a.Key, attrs...)
	}
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, masked)
	}
	return a
}

func isSensitiveKey(key string) bool {
	for _, sensitive := range sensitiveKeys {
		if strings.EqualFold(key, sensitive) {
			return true
		}
	}
	return false
}
