package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dailydiet/dailydiet/internal/model"
	"github.com/dailydiet/dailydiet/internal/service"
	"github.com/dailydiet/dailydiet/internal/session"
)

// SessionResolver resolves a session token to its owning user.
// *service.UserService satisfies it.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*model.User, error)
}

// SessionConfig holds configuration for the session guard.
type SessionConfig struct {
	Logger   *slog.Logger
	Resolver SessionResolver
}

// SessionGuard returns a middleware that authenticates requests by their
// session cookie. The matching user is re-queried on every request (no
// caching) and injected into the request context. A missing cookie and
// an unknown token are deliberately indistinguishable: both get a 401.
func SessionGuard(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.TokenFromRequest(r)

			user, err := cfg.Resolver.ResolveSession(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrNotAuthenticated) {
					cfg.Logger.Warn("authentication failed",
						slog.String("ip", r.RemoteAddr),
						slog.String("endpoint", r.Method+" "+r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeSessionError(w)
					return
				}

				cfg.Logger.Error("database error during session resolution",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeInternalError(w)
				return
			}

			ctx := session.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeSessionError writes a 401 Unauthorized response.
// The same message is used for all auth failures to prevent enumeration.
func writeSessionError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Invalid or missing session","code":"UNAUTHORIZED"}`))
}

// writeInternalError writes a generic 500 response.
func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"An internal error occurred","code":"INTERNAL_ERROR"}`))
}
