package middleware

import (
	"log/slog"
	"net/http"

	"clinic-web/internal/observability"
	"clinic-web/internal/security"
)

// CSRF validates the synchronizer token on state-changing requests against
// the session's CSRFToken. It must run after the gatekeeper or
// RequireSession so the session is in the context.
//
// Token sources, in order: form field csrf_token, X-CSRF-Token header,
// X-XSRF-Token header.
func CSRF(tokens *security.TokenManager) func(http.Handler) http.Handler {
	return csrf(tokens, true)
}

// CSRFWhenSignedIn is CSRF for endpoints anonymous visitors may also call,
// such as sign-out. Requests without a session pass unchecked.
func CSRFWhenSignedIn(tokens *security.TokenManager) func(http.Handler) http.Handler {
	return csrf(tokens, false)
}

func csrf(tokens *security.TokenManager, requireSession bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			session, ok := GetSession(r.Context())
			if !ok {
				if !requireSession {
					next.ServeHTTP(w, r)
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			submitted := extractCSRFToken(r)
			if submitted == "" {
				logCSRFFailure(r, session.UserID, "missing token")
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}

			if err := tokens.Verify(session.CSRFToken, submitted); err != nil {
				logCSRFFailure(r, session.UserID, "invalid token")
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}

func extractCSRFToken(r *http.Request) string {
	if token := r.FormValue("csrf_token"); token != "" {
		return token
	}
	if token := r.Header.Get("X-CSRF-Token"); token != "" {
		return token
	}
	return r.Header.Get("X-XSRF-Token")
}

func logCSRFFailure(r *http.Request, userID, reason string) {
	observability.FromContext(r.Context()).Warn("CSRF validation failed",
		slog.String("user_id", userID),
		slog.String("reason", reason),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)
}
