package logging

import (
	"context"
	"log/slog"
)

// runIDHandler stamps every record with the batch run identifier unless a
// logger derived through WithContext already carries one.
type runIDHandler struct {
	base    slog.Handler
	runID   string
	stamped bool
}

func newRunIDHandler(base slog.Handler, runID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &runIDHandler{base: base, runID: runID}
}

func (h *runIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *runIDHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.stamped {
		record = record.Clone()
		record.AddAttrs(slog.String(FieldRunID, h.runID))
	}
	return h.base.Handle(ctx, record)
}

func (h *runIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	stamped := h.stamped
	for _, attr := range attrs {
		if attr.Key == FieldRunID {
			stamped = true
		}
	}
	return &runIDHandler{base: h.base.WithAttrs(attrs), runID: h.runID, stamped: stamped}
}

func (h *runIDHandler) WithGroup(name string) slog.Handler {
	return &runIDHandler{base: h.base.WithGroup(name), runID: h.runID, stamped: h.stamped}
}
