package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/session"
)

func newGoogleTestServer(t *testing.T, fb *fakeBackend) *Server {
	t.Helper()
	cfg := testConfig(fb.server.URL)
	cfg.Google = config.GoogleConfig{ClientID: "client-id", ClientSecret: "client-secret"}
	srv, err := New(cfg, zerolog.Nop(), "test")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return srv
}

func TestGoogleSignInRedirect(t *testing.T) {
	srv := newGoogleTestServer(t, newFakeBackend(t))

	rec := perform(srv, httptest.NewRequest(http.MethodGet, "/api/auth/signin/google?returnUrl=/dashboard", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}

	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("Location not a URL: %v", err)
	}
	if location.Host != "accounts.google.com" {
		t.Errorf("redirect host = %q, want the provider", location.Host)
	}

	query := location.Query()
	if query.Get("client_id") != "client-id" {
		t.Errorf("client_id = %q", query.Get("client_id"))
	}
	if query.Get("access_type") != "offline" || query.Get("prompt") != "consent" {
		t.Errorf("offline access not requested: %v", query)
	}
	if !strings.Contains(query.Get("scope"), "openid") {
		t.Errorf("scope = %q", query.Get("scope"))
	}
	if query.Get("redirect_uri") != "http://localhost:3000/api/auth/callback/google" {
		t.Errorf("redirect_uri = %q", query.Get("redirect_uri"))
	}

	cookies := rec.Result().Cookies()
	state := cookieByName(cookies, session.StateCookie)
	if state == nil || state.Value == "" {
		t.Fatal("state cookie not set")
	}
	if query.Get("state") != state.Value {
		t.Errorf("state parameter %q does not match cookie %q", query.Get("state"), state.Value)
	}
	if ret := cookieByName(cookies, oauthReturnCookie); ret == nil || ret.Value != "/dashboard" {
		t.Errorf("return cookie = %+v", ret)
	}
}

func TestGoogleSignInClearsStaleCookies(t *testing.T) {
	// A leftover access_token cookie from an earlier credential login would
	// win cookie-first resolution over the session issued by the callback, so
	// sign-in must expire it up front.
	srv := newGoogleTestServer(t, newFakeBackend(t))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/signin/google", nil)
	req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "stale-token"})
	req.AddCookie(&http.Cookie{Name: session.RefreshTokenCookie, Value: "stale-refresh"})
	rec := perform(srv, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}

	cookies := rec.Result().Cookies()
	for _, name := range []string{session.AccessTokenCookie, session.RefreshTokenCookie, session.SessionCookie} {
		ck := cookieByName(cookies, name)
		if ck == nil {
			t.Errorf("cookie %s not cleared at sign-in", name)
			continue
		}
		if ck.MaxAge >= 0 || ck.Value != "" {
			t.Errorf("cookie %s = %+v, want expired and empty", name, ck)
		}
	}
}

func TestGoogleSignInRejectsExternalReturnURL(t *testing.T) {
	srv := newGoogleTestServer(t, newFakeBackend(t))

	rec := perform(srv, httptest.NewRequest(http.MethodGet,
		"/api/auth/signin/google?returnUrl=https://evil.example/phish", nil))

	if ck := cookieByName(rec.Result().Cookies(), oauthReturnCookie); ck != nil {
		t.Errorf("return cookie set for an external URL: %+v", ck)
	}
}

func TestGoogleCallbackRejections(t *testing.T) {
	srv := newGoogleTestServer(t, newFakeBackend(t))

	tests := []struct {
		name   string
		target string
		cookie *http.Cookie
	}{
		{
			name:   "provider error",
			target: "/api/auth/callback/google?error=access_denied",
		},
		{
			name:   "missing state cookie",
			target: "/api/auth/callback/google?state=abc&code=xyz",
		},
		{
			name:   "state mismatch",
			target: "/api/auth/callback/google?state=abc&code=xyz",
			cookie: &http.Cookie{Name: session.StateCookie, Value: "different"},
		},
		{
			name:   "missing code",
			target: "/api/auth/callback/google?state=abc",
			cookie: &http.Cookie{Name: session.StateCookie, Value: "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := perform(srv, req)

			if rec.Code != http.StatusFound {
				t.Fatalf("status = %d, want 302", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != oauthErrorURL {
				t.Errorf("Location = %q, want %q", got, oauthErrorURL)
			}
			if ck := cookieByName(rec.Result().Cookies(), session.SessionCookie); ck != nil && ck.Value != "" {
				t.Error("session cookie issued on a rejected callback")
			}
		})
	}
}

func TestGoogleRoutesAbsentWhenDisabled(t *testing.T) {
	srv := newTestServer(t, newFakeBackend(t))

	rec := perform(srv, httptest.NewRequest(http.MethodGet, "/api/auth/signin/google", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when OAuth is not configured", rec.Code)
	}
}
