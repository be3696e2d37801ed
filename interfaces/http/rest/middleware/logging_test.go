package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel zapcore.Level
	}{
		{name: "ok", path: "/api/v1/document", status: http.StatusOK, wantLevel: zapcore.InfoLevel},
		{name: "implicit ok", path: "/api/v1/document", wantLevel: zapcore.InfoLevel},
		{name: "client error", path: "/api/v1/nodes", status: http.StatusUnprocessableEntity, wantLevel: zapcore.WarnLevel},
		{name: "server error", path: "/api/v1/document/save", status: http.StatusInternalServerError, wantLevel: zapcore.ErrorLevel},
		{name: "probe", path: "/health", status: http.StatusOK, wantLevel: zapcore.DebugLevel},
		{name: "failing readiness check", path: "/ready", status: http.StatusServiceUnavailable, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			handler := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(WithWorkspace(req.Context(), "ws-1")))

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, tt.path, fields["path"])
			assert.Equal(t, "ws-1", fields["workspaceID"])
			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			assert.EqualValues(t, wantStatus, fields["status"])
		})
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := Logger(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, logs.Len())
}
