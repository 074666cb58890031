package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"clinic-web/internal/action"
	"clinic-web/internal/domain"
	"clinic-web/internal/identity"
	"clinic-web/internal/middleware"
	"clinic-web/internal/security"
	"clinic-web/internal/service"
	"clinic-web/internal/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type remoteCall struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          []byte
}

// fakeRemote stands in for the clinic API. Routes are registered before the
// first request.
type fakeRemote struct {
	*httptest.Server
	mux   *chi.Mux
	mu    sync.Mutex
	calls []remoteCall
}

func newFakeRemote(t *testing.T) *fakeRemote {
	t.Helper()
	f := &fakeRemote{mux: chi.NewRouter()}
	f.Server = httptest.NewServer(f.record(f.mux))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeRemote) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, remoteCall{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// reply registers a canned JSON response.
func (f *fakeRemote) reply(method, pattern string, status int, body any) {
	f.mux.MethodFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			json.NewEncoder(w).Encode(body)
		}
	})
}

func (f *fakeRemote) lastCall(t *testing.T, method, path string) remoteCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method && f.calls[i].Path == path {
			return f.calls[i]
		}
	}
	t.Fatalf("no %s %s call recorded", method, path)
	return remoteCall{}
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func ok(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

func rejected(msg string) map[string]any {
	return map[string]any{"success": false, "message": msg}
}

type testApp struct {
	router http.Handler
	remote *fakeRemote
	store  *testutil.MockStore
	carts  *testutil.MockCartStore
}

func newTestApp(t *testing.T, remote *fakeRemote, sessions ...*domain.Session) *testApp {
	t.Helper()

	renderer, err := NewRenderer()
	require.NoError(t, err)

	store := testutil.NewMockStore(sessions...)
	carts := testutil.NewMockCartStore()
	client := action.NewClient(remote.URL, remote.Client(), identity.NewRequestAccessor(store))
	auth := service.NewAuthService(identity.NewProvider(remote.URL, remote.Client()), store, "memory", time.Hour)

	router := NewRouter(Deps{
		Auth:           auth,
		Sessions:       store,
		Actions:        client,
		Carts:          carts,
		Checkout:       service.NewCheckoutService(carts, client.Orders()),
		Tokens:         security.NewTokenManager(),
		Renderer:       renderer,
		Cookies:        CookieConfig{SessionTTL: time.Hour},
		Routes:         middleware.DefaultRouteTable(),
		AllowedOrigins: []string{"http://localhost:3000"},
		ReadyChecks:    map[string]Check{},
	})

	return &testApp{router: router, remote: remote, store: store, carts: carts}
}

func (a *testApp) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func withSession(req *http.Request, s *domain.Session) *http.Request {
	req.AddCookie(&http.Cookie{Name: identity.SessionCookieName, Value: s.Token})
	return req
}
