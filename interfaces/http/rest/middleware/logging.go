package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Health check paths are logged at debug so load balancer health checks stay quiet.
var healthPaths = map[string]bool{"/health": true, "/ready": true, "/metrics": true}

// Logger logs one line per request. Server errors log at error, client
// errors at warn.
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(rec, r)

			status := rec.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if ce := logger.Check(requestLevel(r.URL.Path, status), "HTTP Request"); ce != nil {
				ce.Write(
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Int("bytes", rec.BytesWritten()),
					zap.Duration("duration", time.Since(started)),
					zap.String("requestID", chimw.GetReqID(r.Context())),
					zap.String("workspaceID", WorkspaceFrom(r.Context())),
				)
			}
		})
	}
}

func requestLevel(path string, status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	case healthPaths[path]:
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}
