package zap

import (
	"go.uber.org/zap"

	"github.com/openestate/searchcache"
)

// ZapLogger adapts a zap.Logger to the cache's Logger interface. Each call
// converts the field map to zap fields, so level filtering should happen in
// the zap core; the cache logs on hot read paths at Debug.
type ZapLogger struct{ L *zap.Logger }

func (z ZapLogger) Debug(msg string, f searchcache.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f searchcache.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f searchcache.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f searchcache.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f searchcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
