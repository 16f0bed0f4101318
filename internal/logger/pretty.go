package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// PrettyOptions configures a PrettyHandler.
type PrettyOptions struct {
	// Level is the minimum level written; nil means info.
	Level slog.Leveler
	// Color enables ANSI escapes.
	Color bool
}

// PrettyHandler writes one line per record:
//
//	15:04:05 LEVEL message key=value key="spaced value"
type PrettyHandler struct {
	opts  PrettyOptions
	w     io.Writer
	mu    *sync.Mutex
	group string
	attrs []slog.Attr
}

// NewPrettyHandler creates a PrettyHandler. A nil opts writes uncolored
// records at info level.
func NewPrettyHandler(w io.Writer, opts *PrettyOptions) *PrettyHandler {
	if opts == nil {
		opts = &PrettyOptions{}
	}
	return &PrettyHandler{
		opts: *opts,
		w:    w,
		mu:   &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)

	buf = h.paint(buf, colorGray, func(b []byte) []byte {
		return r.Time.AppendFormat(b, time.TimeOnly)
	})
	buf = append(buf, ' ')
	buf = h.paint(buf, levelColor(r.Level)+colorBold, func(b []byte) []byte {
		return append(b, fmt.Sprintf("%-5s", r.Level.String())...)
	})
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		attrs = append(attrs, a)
		return true
	})
	if len(attrs) > 0 {
		buf = append(buf, ' ')
		buf = h.paint(buf, colorCyan, func(b []byte) []byte {
			for i, a := range attrs {
				if i > 0 {
					b = append(b, ' ')
				}
				b = appendAttr(b, a)
			}
			return b
		})
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs qualifies attrs with the current group at the time they are
// added, so later groups do not rename them.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		next.group = h.group + "." + name
	} else {
		next.group = name
	}
	return &next
}

func (h *PrettyHandler) paint(buf []byte, color string, body func([]byte) []byte) []byte {
	if !h.opts.Color {
		return body(buf)
	}
	buf = append(buf, color...)
	buf = body(buf)
	return append(buf, colorReset...)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorBlue
	default:
		return colorGray
	}
}

func appendAttr(buf []byte, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if needsQuoting(s) {
			buf = strconv.AppendQuote(buf, s)
		} else {
			buf = append(buf, s...)
		}
	case slog.KindTime:
		buf = a.Value.Time().AppendFormat(buf, time.RFC3339)
	case slog.KindDuration:
		buf = append(buf, a.Value.Duration().String()...)
	case slog.KindGroup:
		buf = append(buf, '{')
		for i, g := range a.Value.Group() {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = appendAttr(buf, g)
		}
		buf = append(buf, '}')
	default:
		buf = append(buf, fmt.Sprint(a.Value.Any())...)
	}
	return buf
}

func needsQuoting(s string) bool {
	return strings.ContainsAny(s, " \t\n\"=")
}
