// Package admin guards operator endpoints with a shared static token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"donorlink/pkg/platform/httputil"
	"donorlink/pkg/platform/middleware/metadata"
	"donorlink/pkg/requestcontext"
)

// HeaderAdminToken carries the operator token for /admin routes.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken rejects requests whose token does not match expected.
// An empty expected token locks the routes entirely.
func RequireAdminToken(expected string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tokenMatches(expected, r.Header.Get(HeaderAdminToken)) {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin request rejected",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
					"client_ip", metadata.GetClientIP(ctx),
				)
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: "admin token required",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenMatches(expected, sent string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sent), []byte(expected)) == 1
}
