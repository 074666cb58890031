package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"clinic-web/internal/security"
	"clinic-web/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func csrfHandler() http.Handler {
	return CSRF(security.NewTokenManager())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRF_SkipsSafeMethods(t *testing.T) {
	handler := csrfHandler()

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(method, "/api/account/orders", nil))
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}

func TestCSRF_RequiresSession(t *testing.T) {
	w := httptest.NewRecorder()
	csrfHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/account/reviews", nil))

	testutil.AssertJSONError(t, w, http.StatusUnauthorized, "Not authenticated")
}

func TestCSRF_ValidatesToken(t *testing.T) {
	session := testutil.NewTestSession(testutil.WithCSRFToken("good-token"))
	handler := csrfHandler()

	tests := []struct {
		name   string
		build  func() *http.Request
		status int
	}{
		{
			name: "missing",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/account/reviews", nil)
			},
			status: http.StatusForbidden,
		},
		{
			name: "wrong_header",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/account/reviews", nil)
				req.Header.Set("X-CSRF-Token", "bad-token")
				return req
			},
			status: http.StatusForbidden,
		},
		{
			name: "header",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/account/reviews", nil)
				req.Header.Set("X-CSRF-Token", "good-token")
				return req
			},
			status: http.StatusOK,
		},
		{
			name: "alternate_header",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/account/reviews", nil)
				req.Header.Set("X-XSRF-Token", "good-token")
				return req
			},
			status: http.StatusOK,
		},
		{
			name: "form_field",
			build: func() *http.Request {
				form := url.Values{"csrf_token": {"good-token"}}
				req := httptest.NewRequest(http.MethodPost, "/dashboard/reviews", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.build()
			req = req.WithContext(WithSession(req.Context(), session))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCSRFWhenSignedIn(t *testing.T) {
	session := testutil.NewTestSession(testutil.WithCSRFToken("good-token"))
	handler := CSRFWhenSignedIn(security.NewTokenManager())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous_passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("signed_in_without_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
		req = req.WithContext(WithSession(req.Context(), session))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		testutil.AssertJSONError(t, w, http.StatusForbidden, "Forbidden")
	})

	t.Run("signed_in_with_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/sign-out", nil)
		req.Header.Set("X-CSRF-Token", "good-token")
		req = req.WithContext(WithSession(req.Context(), session))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
