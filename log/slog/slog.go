package slog

import (
	"context"
	"log/slog"

	"github.com/openestate/searchcache"
)

type SlogLogger struct{ L *slog.Logger }

func (s SlogLogger) Debug(msg string, f searchcache.Fields) { s.log(slog.LevelDebug, msg, f) }
func (s SlogLogger) Info(msg string, f searchcache.Fields)  { s.log(slog.LevelInfo, msg, f) }
func (s SlogLogger) Warn(msg string, f searchcache.Fields)  { s.log(slog.LevelWarn, msg, f) }
func (s SlogLogger) Error(msg string, f searchcache.Fields) { s.log(slog.LevelError, msg, f) }

func (s SlogLogger) log(level slog.Level, msg string, f searchcache.Fields) {
	if !s.L.Enabled(context.Background(), level) {
		return
	}
	attrs := make([]any, 0, len(f)*2)
	for k, v := range f {
		attrs = append(attrs, k, v)
	}
	s.L.Log(context.Background(), level, msg, attrs...)
}
