package middleware

import (
	"context"
	"net/http"

	"clinic-web/internal/domain"
	"clinic-web/internal/observability"
)

type contextKey string

const SessionKey contextKey = "session"

// RequireSession rejects requests without a live session with a 401 JSON
// error. It reuses a session the gatekeeper already resolved and otherwise
// resolves the cookie itself.
func RequireSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetSession(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			token := sessionCookie(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			session, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			ctx := WithSession(r.Context(), session)
			ctx = observability.WithUserID(ctx, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession loads the session when the cookie resolves and otherwise
// passes the request through untouched.
func OptionalSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetSession(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			token := sessionCookie(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			session, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithSession(r.Context(), session)
			ctx = observability.WithUserID(ctx, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the session resolved for this request, if any.
func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*domain.Session)
	return session, ok && session != nil
}

func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
