package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/coltranesx/Project-Area/application/editor"
	"github.com/coltranesx/Project-Area/pkg/auth"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"go.uber.org/zap"
)

// WorkspaceHeader names the workspace when authentication is disabled.
const WorkspaceHeader = "X-Workspace-ID"

type contextKey struct{}

// WithWorkspace returns a context scoped to workspaceID
func WithWorkspace(ctx context.Context, workspaceID string) context.Context {
	return context.WithValue(ctx, contextKey{}, workspaceID)
}

// WorkspaceFrom returns the workspace set by Authenticate, or "" outside a
// scoped request.
func WorkspaceFrom(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Authenticate scopes every request to a workspace. With a validator the
// workspace is the token subject and requests without a valid token are
// refused; otherwise it comes from the X-Workspace-ID header and defaults to
// the shared workspace.
func Authenticate(validator *auth.JWTValidator, errs *apperrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var workspaceID string

			if validator != nil {
				token := extractToken(r)
				if token == "" {
					errs.Handle(w, r, apperrors.NewUnauthorizedError("missing authentication token"))
					return
				}
				claims, err := validator.ValidateToken(token)
				if err != nil {
					logger.Warn("Invalid token", zap.Error(err), zap.String("path", r.URL.Path))
					errs.Handle(w, r, apperrors.NewUnauthorizedError(err.Error()))
					return
				}
				workspaceID = claims.Workspace()
			} else {
				workspaceID = strings.TrimSpace(r.Header.Get(WorkspaceHeader))
				if workspaceID == "" {
					workspaceID = editor.DefaultWorkspace
				}
			}

			if strings.ContainsAny(workspaceID, ":/") || len(workspaceID) > 128 {
				errs.Handle(w, r, apperrors.NewValidationError("invalid workspace id"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), workspaceID)))
		})
	}
}

// extractToken reads the bearer token from the Authorization header, or from
// the token query parameter used by browser websocket clients.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return header
	}
	return r.URL.Query().Get("token")
}
