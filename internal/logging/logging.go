// Package logging configures structured logging for the CLI and HTTP server.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	reset     = "\033[0m"
	red       = "\033[31m"
	green     = "\033[32m"
	yellow    = "\033[33m"
	magenta   = "\033[35m"
	cyan      = "\033[36m"
	white     = "\033[37m"
	boldBlue  = "\033[1;34m"
	boldWhite = "\033[1;37m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: cyan,
	slog.LevelInfo:  green,
	slog.LevelWarn:  yellow,
	slog.LevelError: red,
}

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDAttr is the attribute key used for request identifiers.
const RequestIDAttr = "request_id"

// Handler is a slog.Handler that renders one colored line per record:
// time, level, optional [request id], message, then key=value attributes.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	color  bool
	attrs  []slog.Attr
	groups []string
}

// NewHandler creates a Handler writing to w. Colors are disabled when color is false.
func NewHandler(w io.Writer, opts *slog.HandlerOptions, color bool) *Handler {
	h := &Handler{out: w, color: color}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

// Enabled reports whether records at level are emitted.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes a record.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	var line strings.Builder

	line.WriteString(h.paint(magenta, r.Time.Format("15:04:05.000")))
	line.WriteByte(' ')

	levelColor, ok := levelColors[r.Level]
	if !ok {
		levelColor = white
	}
	line.WriteString(h.paint(levelColor, fmt.Sprintf("%-5s", strings.ToUpper(r.Level.String()))))
	line.WriteByte(' ')

	if id := RequestID(ctx); id != "" {
		line.WriteString(h.paint(boldBlue, "["+id+"]"))
		line.WriteByte(' ')
	}

	line.WriteString(h.paint(boldWhite, r.Message))

	prefix := h.groupPrefix()
	writeAttr := func(key string, a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		val := a.Value.Resolve().String()
		if a.Value.Kind() == slog.KindString {
			val = fmt.Sprintf("%q", val)
		}
		line.WriteByte(' ')
		line.WriteString(h.paint(yellow, key))
		line.WriteByte('=')
		line.WriteString(val)
	}
	for _, a := range h.attrs {
		writeAttr(a.Key, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(prefix+a.Key, a)
		return true
	})

	line.WriteByte('\n')
	_, err := io.WriteString(h.out, line.String())
	return err
}

// WithAttrs returns a handler that always includes attrs, qualified by the
// groups open at the time of the call.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	prefix := h.groupPrefix()
	for _, a := range attrs {
		a.Key = prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup returns a handler that prefixes subsequent attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func (h *Handler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func (h *Handler) paint(color, s string) string {
	if !h.color {
		return s
	}
	return color + s + reset
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// Setup installs a Handler writing to stderr as the default logger and returns it.
func Setup(level slog.Level) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, &slog.HandlerOptions{Level: level}, isTerminal(os.Stderr)))
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// WithRequestID stores a request identifier in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request identifier stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
