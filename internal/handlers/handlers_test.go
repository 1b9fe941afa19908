package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/propmgr/internal/accounts"
	"github.com/nfrund/propmgr/internal/domain"
	"github.com/nfrund/propmgr/internal/handlers"
	"github.com/nfrund/propmgr/internal/middleware"
	"github.com/nfrund/propmgr/internal/rendering"
	"github.com/nfrund/propmgr/internal/testutils"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// fakeAccounts is an in-memory account service.
type fakeAccounts struct {
	mu        sync.Mutex
	passwords map[string]string
	users     map[string]*domain.User
	sessions  map[string]*domain.User
	oauth     bool
	// oauthBrowser is the browser the last issued state is bound to.
	oauthBrowser string
	calls        []string
	signedOut []string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		passwords: map[string]string{},
		users:     map[string]*domain.User{},
		sessions:  map[string]*domain.User{},
	}
}

func (f *fakeAccounts) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeAccounts) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAccounts) newSession(u *domain.User) *domain.Session {
	token := "tok-" + u.Email
	f.sessions[token] = u
	return &domain.Session{Token: token, User: u, ExpiresAt: time.Now().Add(time.Hour)}
}

func (f *fakeAccounts) Register(ctx context.Context, name, email, password string, meta accounts.RequestMeta) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Register")
	if _, ok := f.users[email]; ok {
		return nil, domain.ErrUserAlreadyExists
	}
	u := testutils.NewTestUser(name, email)
	f.users[email] = u
	f.passwords[email] = password
	return f.newSession(u), nil
}

func (f *fakeAccounts) SignIn(ctx context.Context, email, password string, meta accounts.RequestMeta) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignIn")
	u, ok := f.users[email]
	if !ok || f.passwords[email] != password {
		return nil, domain.ErrInvalidCredentials
	}
	return f.newSession(u), nil
}

func (f *fakeAccounts) OAuthEnabled() bool { return f.oauth }

func (f *fakeAccounts) BeginOAuth(ctx context.Context, browserID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BeginOAuth")
	if !f.oauth {
		return "", domain.ErrProviderDisabled
	}
	f.oauthBrowser = browserID
	return "https://accounts.example.com/auth?state=good", nil
}

func (f *fakeAccounts) CompleteOAuth(ctx context.Context, state, code string, meta accounts.RequestMeta) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CompleteOAuth")
	if state != "good" || f.oauthBrowser == "" || meta.BrowserID != f.oauthBrowser {
		return nil, domain.ErrInvalidOAuthState
	}
	u := testutils.NewTestUser("Gina", "gina@example.com")
	f.users[u.Email] = u
	return f.newSession(u), nil
}

func (f *fakeAccounts) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.sessions[token]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (f *fakeAccounts) SignOut(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, token)
	delete(f.sessions, token)
	return nil
}

// setupAuthTest wires the auth and home handlers the way the server does.
func setupAuthTest(t *testing.T) (*echo.Echo, *fakeAccounts) {
	t.Helper()
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))

	accts := newFakeAccounts()
	renderer := rendering.NewUniversalRenderer()
	auth := handlers.NewAuthHandler(accts, renderer, time.Hour)
	home := handlers.NewHomeHandler(renderer)

	e.GET("/auth/sign-in", auth.SignInGet)
	e.POST("/auth/sign-in", auth.SignInPost)
	e.POST("/auth/sign-in/mode", auth.SignInMode)
	e.GET("/auth/google", auth.GoogleStart)
	e.GET("/auth/google/callback", auth.GoogleCallback)
	e.POST("/auth/logout", auth.Logout)
	e.GET("/", home.HomeGet, middleware.Auth(accts, "/auth/sign-in"))
	return e, accts
}

type requestOpt func(*http.Request)

func htmx() requestOpt {
	return func(r *http.Request) { r.Header.Set("HX-Request", "true") }
}

func withCookies(cookies []*http.Cookie) requestOpt {
	return func(r *http.Request) {
		for _, ck := range cookies {
			r.AddCookie(ck)
		}
	}
}

func postForm(e *echo.Echo, path string, form url.Values, opts ...requestOpt) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, path string, opts ...requestOpt) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// latestCookies keeps the last Set-Cookie per name, the way a browser would.
// nextCookies is the browser's cookie jar after rec: cookies rec set replace
// those of the same name in jar.
func nextCookies(jar []*http.Cookie, rec *httptest.ResponseRecorder) []*http.Cookie {
	fresh := latestCookies(rec)
	replaced := map[string]bool{}
	for _, ck := range fresh {
		replaced[ck.Name] = true
	}
	out := make([]*http.Cookie, 0, len(jar)+len(fresh))
	for _, ck := range jar {
		if !replaced[ck.Name] {
			out = append(out, ck)
		}
	}
	return append(out, fresh...)
}

func latestCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	var order []string
	for _, ck := range rec.Result().Cookies() {
		if _, seen := byName[ck.Name]; !seen {
			order = append(order, ck.Name)
		}
		byName[ck.Name] = ck
	}
	out := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

// assertFlashMessage checks the flash session written by a response.
func assertFlashMessage(t *testing.T, rec *httptest.ResponseRecorder, key, expectedMessage string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	withCookies(latestCookies(rec))(req)
	cookieStore := sessions.NewCookieStore([]byte(testSessionSecret))
	sess, err := cookieStore.Get(req, "flash-session")
	require.NoError(t, err)

	flashes := sess.Flashes(key)
	require.NotEmpty(t, flashes, "expected flash message but found none for key: %s", key)
	require.Equal(t, expectedMessage, flashes[0])
}

// sessionValue decodes a value from the auth session written by a response.
func sessionValue(t *testing.T, rec *httptest.ResponseRecorder, key string) any {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	withCookies(latestCookies(rec))(req)
	cookieStore := sessions.NewCookieStore([]byte(testSessionSecret))
	sess, err := cookieStore.Get(req, "auth-session")
	require.NoError(t, err)
	return sess.Values[key]
}
