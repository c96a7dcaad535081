package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// maxValueBytes bounds string attributes. Engine replies and notice text can
// run to many kilobytes and would otherwise flood the log pipeline.
const maxValueBytes = 2048

const truncatedSuffix = "...(truncated)"

func NewJSONLogger(service, level string) *slog.Logger {
	return NewLogger(os.Stdout, service, level)
}

// NewLogger writes JSON records to w. The MCP stdio server logs to stderr
// because stdout carries the protocol.
func NewLogger(w io.Writer, service, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: truncateLongStrings,
	})).With("service", service)
}

func truncateLongStrings(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := a.Value.String()
	if len(s) <= maxValueBytes {
		return a
	}
	cut := maxValueBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return slog.String(a.Key, s[:cut]+truncatedSuffix)
}

// parseLevel accepts slog level names ("debug", "info", "warn", "error",
// optionally with an offset such as "info+2") plus "warning". Anything else
// logs at info.
func parseLevel(level string) slog.Level {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
