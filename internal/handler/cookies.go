package handler

import (
	"net/http"
	"time"

	"clinic-web/internal/cart"
	"clinic-web/internal/identity"

	"github.com/google/uuid"
)

// CookieConfig controls the attributes of cookies set by handlers.
type CookieConfig struct {
	Secure     bool
	SessionTTL time.Duration
}

func (c CookieConfig) setSession(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     identity.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     identity.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// cartID returns the visitor's cart ID, or "" when they have none yet.
func cartID(r *http.Request) string {
	cookie, err := r.Cookie(cart.CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

// ensureCartID returns the visitor's cart ID, issuing a new cookie if needed.
func (c CookieConfig) ensureCartID(w http.ResponseWriter, r *http.Request) string {
	if id := cartID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cart.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cart.DefaultTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
