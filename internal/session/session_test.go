package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	return NewCodec("test-secret", time.Hour)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	in := &Session{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		User: User{
			ID:    "u1",
			Email: "jo@example.com",
			Name:  "Jo",
			Image: "https://example.com/jo.png",
		},
	}

	token, err := codec.Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	out, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if *out != *in {
		t.Errorf("Decode() = %+v, want %+v", out, in)
	}
}

func TestCodec_RejectsWrongSecret(t *testing.T) {
	token, err := newTestCodec(t).Encode(&Session{AccessToken: "a"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	other := NewCodec("other-secret", time.Hour)
	if _, err := other.Decode(token); err == nil {
		t.Error("Decode() with wrong secret succeeded, want error")
	}
}

func TestCodec_RejectsExpired(t *testing.T) {
	codec := NewCodec("test-secret", -time.Minute)
	token, err := codec.Encode(&Session{AccessToken: "a"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := codec.Decode(token); err == nil {
		t.Error("Decode() of expired token succeeded, want error")
	}
}

func TestCodec_EmptySecretDisabled(t *testing.T) {
	codec := NewCodec("", time.Hour)
	if codec.Enabled() {
		t.Error("Enabled() = true with empty secret")
	}
	if _, err := codec.Encode(&Session{}); err == nil {
		t.Error("Encode() with empty secret succeeded, want error")
	}
}

func TestResolver_Precedence(t *testing.T) {
	codec := newTestCodec(t)
	resolver := NewResolver(codec)

	sessionToken, err := codec.Encode(&Session{AccessToken: "from-session"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	tests := []struct {
		name    string
		cookies []*http.Cookie
		want    string
	}{
		{
			name: "cookie wins over session",
			cookies: []*http.Cookie{
				{Name: AccessTokenCookie, Value: "from-cookie"},
				{Name: SessionCookie, Value: sessionToken},
			},
			want: "from-cookie",
		},
		{
			name: "session fallback",
			cookies: []*http.Cookie{
				{Name: SessionCookie, Value: sessionToken},
			},
			want: "from-session",
		},
		{
			name:    "neither source",
			cookies: nil,
			want:    "",
		},
		{
			name: "garbage session cookie",
			cookies: []*http.Cookie{
				{Name: SessionCookie, Value: "not.a.jwt"},
			},
			want: "",
		},
		{
			name: "empty cookie falls back to session",
			cookies: []*http.Cookie{
				{Name: AccessTokenCookie, Value: ""},
				{Name: SessionCookie, Value: sessionToken},
			},
			want: "from-session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, ck := range tt.cookies {
				req.AddCookie(ck)
			}
			if got := resolver.Resolve(req); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthorizationContext(t *testing.T) {
	ctx := context.Background()
	if got := AuthorizationFromContext(ctx); got != "" {
		t.Errorf("AuthorizationFromContext(empty) = %q, want empty", got)
	}

	// Bare tokens gain the Bearer scheme
	if got := AuthorizationFromContext(WithToken(ctx, "tok")); got != "Bearer tok" {
		t.Errorf("AuthorizationFromContext() = %q, want Bearer tok", got)
	}

	// Raw header values keep their own scheme
	if got := AuthorizationFromContext(WithAuthorization(ctx, "Basic dXNlcjpwYXNz")); got != "Basic dXNlcjpwYXNz" {
		t.Errorf("AuthorizationFromContext() = %q, want the raw header", got)
	}
}

func TestClearAuthCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearAuthCookies(rec)

	cleared := map[string]bool{}
	for _, raw := range rec.Header().Values("Set-Cookie") {
		name := strings.SplitN(raw, "=", 2)[0]
		if !strings.Contains(raw, "Max-Age=0") {
			t.Errorf("cookie %s not expired: %s", name, raw)
		}
		cleared[name] = true
	}
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, SessionCookie} {
		if !cleared[name] {
			t.Errorf("cookie %s not cleared", name)
		}
	}
}
