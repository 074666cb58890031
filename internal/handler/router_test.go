package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-web/internal/middleware"
	"clinic-web/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_ContentPages(t *testing.T) {
	app := newTestApp(t, newFakeRemote(t))

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "Our services"},
		{"/fertility", http.StatusOK, "Ovulation induction"},
		{"/about", http.StatusOK, "About the Clinic"},
		{"/no-such-page", http.StatusNotFound, "Page not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := app.serve(httptest.NewRequest(http.MethodGet, tt.path, nil))
			testutil.AssertStatusCode(t, w, tt.wantStatus)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		})
	}
}

func TestRouter_ProtectedPageRedirectsAnonymous(t *testing.T) {
	app := newTestApp(t, newFakeRemote(t))

	w := app.serve(httptest.NewRequest(http.MethodGet, "/dashboard/orders/42", nil))

	loc := testutil.AssertRedirect(t, w, http.StatusTemporaryRedirect, "/sign-in")
	assert.Equal(t, "/dashboard/orders/42", loc.Query().Get("callbackUrl"))
	assert.Equal(t, 0, app.remote.callCount())
}

func TestRouter_SignedInVisitorSkipsSignIn(t *testing.T) {
	session := testutil.NewTestSession()
	app := newTestApp(t, newFakeRemote(t), session)

	for _, path := range []string{"/sign-in", "/sign-up", "/forgot-password"} {
		w := app.serve(withSession(httptest.NewRequest(http.MethodGet, path, nil), session))
		testutil.AssertRedirect(t, w, http.StatusTemporaryRedirect, "/")
	}
}

func TestRouter_ForgetPasswordAlias(t *testing.T) {
	app := newTestApp(t, newFakeRemote(t))

	w := app.serve(httptest.NewRequest(http.MethodGet, "/forget-password", nil))
	testutil.AssertRedirect(t, w, http.StatusMovedPermanently, "/forgot-password")
}

func TestRouter_StaticAssetsSkipSessionLookup(t *testing.T) {
	session := testutil.NewTestSession()
	app := newTestApp(t, newFakeRemote(t), session)

	paths := []string{
		"/static/css/site.css",
		"/images/logo.svg",
		"/favicon.ico",
		"/robots.txt",
		"/sitemap.xml",
		"/manifest.json",
	}
	for _, path := range paths {
		w := app.serve(withSession(httptest.NewRequest(http.MethodGet, path, nil), session))
		testutil.AssertStatusCode(t, w, http.StatusOK)
		assert.NotContains(t, w.Header().Get("Content-Type"), "text/html", path)
	}
	assert.Equal(t, 0, app.store.Resolves)
}

func TestRouter_EveryAssetPrefixIsServed(t *testing.T) {
	app := newTestApp(t, newFakeRemote(t))
	samples := map[string]string{
		"/static/": "/static/css/site.css",
		"/images/": "/images/logo.svg",
	}

	for _, prefix := range middleware.DefaultRouteTable().Assets {
		path := prefix
		if strings.HasSuffix(prefix, "/") {
			sample, ok := samples[prefix]
			require.True(t, ok, "no sample file for asset prefix %s", prefix)
			path = sample
		}
		w := app.serve(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_Sitemap(t *testing.T) {
	app := newTestApp(t, newFakeRemote(t))

	w := app.serve(httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	testutil.AssertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, body, "<loc>http://example.com/</loc>")
	assert.Contains(t, body, "<loc>http://example.com/fertility</loc>")
	assert.Contains(t, body, "<loc>http://example.com/shop</loc>")
	assert.NotContains(t, body, "/dashboard")
}

func TestRouter_LayoutShowsSignedInCustomer(t *testing.T) {
	session := testutil.NewTestSession()
	app := newTestApp(t, newFakeRemote(t), session)

	w := app.serve(withSession(httptest.NewRequest(http.MethodGet, "/", nil), session))

	testutil.AssertStatusCode(t, w, http.StatusOK)
	body := w.Body.String()
	assert.Contains(t, body, "Test Patient")
	assert.Contains(t, body, `content="`+session.CSRFToken+`"`)
	assert.NotContains(t, body, `href="/sign-in"`)
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t, newFakeRemote(t))

	w := app.serve(httptest.NewRequest(http.MethodGet, "/health", nil))
	testutil.AssertStatusCode(t, w, http.StatusOK)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
