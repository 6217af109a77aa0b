package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Handler is a slog.Handler that renders each record as a single line and
// hands it to the browser console method matching its level. In native
// builds the console functions are no-ops, so NewHandler is given a writer
// to fall back to.
type Handler struct {
	level    slog.Leveler
	attrs    []slog.Attr
	group    string
	fallback io.Writer
	mu       *sync.Mutex
}

// NewHandler returns a Handler emitting records at or above level. If
// fallback is non-nil, lines are also written to it.
func NewHandler(level slog.Leveler, fallback io.Writer) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{level: level, fallback: fallback, mu: &sync.Mutex{}}
}

// Logger returns a logger writing to the browser console at info level.
func Logger() *slog.Logger {
	return slog.New(NewHandler(slog.LevelInfo, nil))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	line := h.format(r)

	switch {
	case r.Level >= slog.LevelError:
		Error(line)
	case r.Level >= slog.LevelWarn:
		Warn(line)
	case r.Level < slog.LevelInfo:
		Debug(line)
	default:
		Log(line)
	}

	if h.fallback != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
		_, err := io.WriteString(h.fallback, line+"\n")
		return err
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, h.qualify(a))
	}
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if nh.group != "" {
		nh.group += "." + name
	} else {
		nh.group = name
	}
	return &nh
}

func (h *Handler) qualify(a slog.Attr) slog.Attr {
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

// format renders "LEVEL message key=value ...".
func (h *Handler) format(r slog.Record) string {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.qualify(a))
		return true
	})
	return b.String()
}

func writeAttr(b *strings.Builder, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			ga.Key = a.Key + "." + ga.Key
			writeAttr(b, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(a.Key)
	b.WriteByte('=')
	s := a.Value.String()
	if strings.ContainsAny(s, " \t\"=") {
		s = fmt.Sprintf("%q", s)
	}
	b.WriteString(s)
}
