package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger for the HTTP layer. Nop until SetLogger.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l.With().Str("component", "http").Logger() }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

var defaultLogLevel = LevelInfo

// SetRequestLogLevel sets the default per-request log level
// ("off", "error", "info", "debug").
func SetRequestLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// requestLogger logs request start (debug) and end (info, or error level for
// 5xx) with the chi request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lvl := requestLogLevel(r)
		if lvl == LevelOff {
			next.ServeHTTP(w, r)
			return
		}
		rid := middleware.GetReqID(r.Context())
		if lvl >= LevelDebug {
			zlog.Debug().Str("method", r.Method).Str("path", r.URL.Path).Str("request_id", rid).Msg("request start")
		}
		sr, ok := w.(*statusRecorder)
		if !ok {
			sr = &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		}
		start := time.Now()
		next.ServeHTTP(sr, r)
		if sr.status < http.StatusInternalServerError && lvl < LevelInfo {
			return
		}
		ev := zlog.Info()
		if sr.status >= http.StatusInternalServerError {
			ev = zlog.Error()
		}
		ev.Str("method", r.Method).
			Str("path", routePatternOrPath(r)).
			Int("status", sr.status).
			Dur("dur", time.Since(start)).
			Str("request_id", rid).
			Msg("request end")
	})
}

// logWarn records a handler-level failure with the request id.
func logWarn(r *http.Request, err error, msg string) {
	zlog.Warn().Err(err).Str("path", r.URL.Path).Str("request_id", middleware.GetReqID(r.Context())).Msg(msg)
}
