package instrument

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func initLogging(serviceName string, lp *sdklog.LoggerProvider, maskFields []string) {
	handlers := []slog.Handler{
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				switch a.Key {
				case slog.TimeKey:
					a.Key = "ts"
				case slog.LevelKey:
					a.Key = "severity"
				}
				return a
			},
		}),
	}
	if lp != nil {
		handlers = append(handlers, otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(lp)))
	}

	masks := make(map[string]struct{}, len(maskFields))
	for _, f := range maskFields {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			masks[f] = struct{}{}
		}
	}

	slog.SetDefault(slog.New(&appHandler{
		handlers:    handlers,
		masks:       masks,
		serviceName: serviceName,
	}))
}

// appHandler fans records out to every configured handler, stamps the
// correlation id and service name, and masks sensitive attribute values.
type appHandler struct {
	handlers    []slog.Handler
	masks       map[string]struct{}
	serviceName string
}

func (h *appHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *appHandler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(h.maskAttr(attr))
		return true
	})

	if cid := GetCorrelationID(ctx); cid != "" {
		out.AddAttrs(slog.String("_cid", cid))
	}
	if h.serviceName != "" {
		out.AddAttrs(slog.String("service", h.serviceName))
	}

	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, out.Level) {
			continue
		}
		if err := handler.Handle(ctx, out.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (h *appHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler.WithAttrs(attrs))
	}
	return &appHandler{handlers: handlers, masks: h.masks, serviceName: h.serviceName}
}

func (h *appHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler.WithGroup(name))
	}
	return &appHandler{handlers: handlers, masks: h.masks, serviceName: h.serviceName}
}

func (h *appHandler) maskAttr(attr slog.Attr) slog.Attr {
	if _, found := h.masks[strings.ToLower(attr.Key)]; found {
		return slog.String(attr.Key, "***")
	}

	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		masked := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			masked = append(masked, h.maskAttr(ga))
		}
		attr.Value = slog.GroupValue(masked...)
	}

	return attr
}
