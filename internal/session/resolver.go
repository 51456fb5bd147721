package session

import (
	"context"
	"net/http"
)

// Resolver resolves the caller's bearer credential from the request's own
// cookie jar: the access_token cookie first (credential login), the session
// cookie second (OAuth login). An empty result means unauthenticated; it is
// never an error.
type Resolver struct {
	codec *Codec
}

// NewResolver creates a token resolver backed by the given session codec.
func NewResolver(codec *Codec) *Resolver {
	return &Resolver{codec: codec}
}

// Resolve returns the current bearer token, or "" when neither source has one.
func (r *Resolver) Resolve(req *http.Request) string {
	if ck, err := req.Cookie(AccessTokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	ck, err := req.Cookie(SessionCookie)
	if err != nil || ck.Value == "" {
		return ""
	}

	s, err := r.codec.Decode(ck.Value)
	if err != nil {
		return ""
	}
	return s.AccessToken
}

// Session returns the full session carried by the request, or nil.
func (r *Resolver) Session(req *http.Request) *Session {
	ck, err := req.Cookie(SessionCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	s, err := r.codec.Decode(ck.Value)
	if err != nil {
		return nil
	}
	return s
}

type authCtxKey struct{}

// WithToken stores a bearer token in the request context; the outbound
// backend client sends it as "Bearer <token>".
func WithToken(ctx context.Context, token string) context.Context {
	return WithAuthorization(ctx, "Bearer "+token)
}

// WithAuthorization stores a raw Authorization header value in the request
// context; the outbound backend client forwards it verbatim.
func WithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, authCtxKey{}, header)
}

// AuthorizationFromContext returns the Authorization header value stored in
// the context, if any.
func AuthorizationFromContext(ctx context.Context) string {
	header, _ := ctx.Value(authCtxKey{}).(string)
	return header
}
