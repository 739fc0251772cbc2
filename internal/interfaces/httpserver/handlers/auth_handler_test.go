package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slopify/slopify-api/internal/domain/auth"
	"github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/interfaces/httpserver/handlers"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

func setupAuthRouter(svc *MockAuthService) http.Handler {
	h := handlers.NewAuthHandler(svc, handlers.CookieConfig{Secure: true, SessionTTL: 7 * 24 * time.Hour}, zerolog.Nop())
	r := newTestRouter()
	r.GET("/auth/github", h.Login)
	r.GET("/auth/github/callback", h.Callback)
	r.GET("/auth/logout", h.Logout)
	return r
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_RedirectsWithStateCookie(t *testing.T) {
	var gotOrigin string
	svc := &MockAuthService{BeginLoginFunc: func(origin string) auth.LoginRedirect {
		gotOrigin = origin
		return auth.LoginRedirect{URL: "https://github.test/login/oauth/authorize?state=s1", State: "s1"}
	}}
	r := setupAuthRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "http://slopify.test/auth/github", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://github.test/login/oauth/authorize?state=s1", w.Header().Get("Location"))
	assert.Equal(t, "https://slopify.test", gotOrigin)

	state := cookieByName(w, "oauth_state")
	require.NotNil(t, state)
	assert.Equal(t, "s1", state.Value)
	assert.True(t, state.HttpOnly)
	assert.Equal(t, 600, state.MaxAge)
}

func callback(r http.Handler, query, stateCookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "http://slopify.test/auth/github/callback"+query, nil)
	if stateCookie != "" {
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: stateCookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCallback_SetsSessionCookie(t *testing.T) {
	svc := &MockAuthService{CompleteLoginFunc: func(_ context.Context, code, origin string) (*auth.Session, error) {
		assert.Equal(t, "abc", code)
		assert.Equal(t, "http://slopify.test", origin)
		return &auth.Session{User: &user.User{ID: "9"}, Token: "signed-token"}, nil
	}}
	r := setupAuthRouter(svc)

	w := callback(r, "?code=abc&state=s1", "s1")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	session := cookieByName(w, "session")
	require.NotNil(t, session)
	assert.Equal(t, "signed-token", session.Value)
	assert.Equal(t, "/", session.Path)
	assert.Equal(t, 604800, session.MaxAge)
	assert.True(t, session.HttpOnly)
	assert.True(t, session.Secure)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
}

func TestCallback_Failures(t *testing.T) {
	svc := &MockAuthService{CompleteLoginFunc: func(ctx context.Context, code, _ string) (*auth.Session, error) {
		if code == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "Missing code parameter", auth.ErrMissingCode, "")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "Failed to get access token", auth.ErrAuthExchange, "")
	}}
	r := setupAuthRouter(svc)

	tests := []struct {
		name    string
		query   string
		cookie  string
		wantErr string
	}{
		{name: "missing state cookie", query: "?code=abc&state=s1", wantErr: "Invalid state parameter"},
		{name: "state mismatch", query: "?code=abc&state=other", cookie: "s1", wantErr: "Invalid state parameter"},
		{name: "missing code", query: "?state=s1", cookie: "s1", wantErr: "Missing code parameter"},
		{name: "exchange rejected", query: "?code=stale&state=s1", cookie: "s1", wantErr: "Failed to get access token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := callback(r, tt.query, tt.cookie)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, decode(t, w)["error"])
			assert.Nil(t, cookieByName(w, "session"))
		})
	}
}

func TestCallback_InternalFailureIs500(t *testing.T) {
	svc := &MockAuthService{CompleteLoginFunc: func(context.Context, string, string) (*auth.Session, error) {
		return nil, errors.New("db down")
	}}
	r := setupAuthRouter(svc)

	w := callback(r, "?code=abc&state=s1", "s1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogout_ClearsSession(t *testing.T) {
	r := setupAuthRouter(&MockAuthService{})

	w := do(r, http.MethodGet, "/auth/logout", "1", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	session := cookieByName(w, "session")
	require.NotNil(t, session)
	assert.Empty(t, session.Value)
	assert.Contains(t, w.Header().Values("Set-Cookie")[0], "Max-Age=0")
}
