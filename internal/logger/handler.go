package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag"

// filteringHandler drops records by tag, package or file before handing the
// rest to the wrapped handler.
type filteringHandler struct {
	base slog.Handler
	cfg  *Config
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{base: base, cfg: cfg}
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// passes applies the enabled/disabled pair for one key. Empty keys are not filtered.
func passes(key string, enabled, disabled map[string]struct{}) bool {
	if key == "" {
		return true
	}
	key = strings.ToLower(key)
	if _, off := disabled[key]; off {
		return false
	}
	if enabled != nil {
		_, on := enabled[key]
		return on
	}
	return true
}

func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.base.Handle(ctx, r)
	}

	var pkg, file string
	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			file = filepath.Base(frame.File)
			pkg = filepath.Base(filepath.Dir(frame.File))
		}
	}
	if !passes(pkg, h.cfg.enabledPackages, h.cfg.disabledPackages) {
		return nil
	}
	if !passes(file, h.cfg.enabledFiles, h.cfg.disabledFiles) {
		return nil
	}

	var tag string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = a.Value.String()
			return false
		}
		return true
	})
	if tag == "" && h.cfg.enabledTags != nil {
		// Untagged messages are dropped once an allow-list of tags exists.
		return nil
	}
	if !passes(tag, h.cfg.enabledTags, h.cfg.disabledTags) {
		return nil
	}
	return h.base.Handle(ctx, r)
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.base.WithAttrs(attrs), h.cfg)
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.base.WithGroup(name), h.cfg)
}
