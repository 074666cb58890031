package middleware

import (
	"context"
	"net/http"

	"clinic-web/internal/domain"
	"clinic-web/internal/identity"
	"clinic-web/internal/observability"
)

// SessionResolver turns a session cookie value into a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// Gatekeeper classifies each request path against table and either lets it
// through or redirects it with 307. Asset and public API requests never
// trigger a session lookup. For other requests a resolved session is stored
// in the context; resolution failures count as anonymous.
//
// The raw cookie value is always attached to the context so downstream
// accessors can resolve it themselves.
func Gatekeeper(resolver SessionResolver, table RouteTable) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := sessionCookie(r)
			if token != "" {
				ctx = identity.WithSessionToken(ctx, token)
			}

			class := table.Classify(r.URL.Path)
			if class == ClassAsset || class == ClassPublicAPI {
				observability.GatekeeperDecisions.WithLabelValues(class.String(), Continue.String()).Inc()
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			var session *domain.Session
			if token != "" {
				s, err := resolver.Resolve(ctx, token)
				if err == nil {
					session = s
				}
			}

			decision := Decide(class, session != nil, r.URL.Path)
			observability.GatekeeperDecisions.WithLabelValues(class.String(), decision.Action.String()).Inc()

			if decision.Action != Continue {
				observability.FromContext(ctx).Debug("gatekeeper redirect",
					"path", r.URL.Path,
					"class", class.String(),
					"target", decision.Target,
				)
				http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
				return
			}

			if session != nil {
				ctx = WithSession(ctx, session)
				ctx = observability.WithUserID(ctx, session.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionCookie(r *http.Request) string {
	cookie, err := r.Cookie(identity.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
