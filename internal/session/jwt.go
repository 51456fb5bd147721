package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the session cookie claims
type Claims struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         User   `json:"user"`
	jwt.RegisteredClaims
}

// Codec signs and verifies the session cookie payload.
type Codec struct {
	secret []byte
	maxAge time.Duration
}

// NewCodec creates a session codec. An empty secret leaves the codec in a
// disabled state where Encode and Decode always fail.
func NewCodec(secret string, maxAge time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		maxAge: maxAge,
	}
}

// Enabled reports whether a signing secret is configured.
func (c *Codec) Enabled() bool {
	return len(c.secret) > 0
}

// MaxAge returns the session lifetime.
func (c *Codec) MaxAge() time.Duration {
	return c.maxAge
}

// Encode signs a session into a compact JWT string
func (c *Codec) Encode(s *Session) (string, error) {
	if len(c.secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	claims := Claims{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         s.User,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode validates a session token and returns the session it carries
func (c *Codec) Decode(tokenString string) (*Session, error) {
	if len(c.secret) == 0 {
		return nil, fmt.Errorf("session secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	return &Session{
		AccessToken:  claims.AccessToken,
		RefreshToken: claims.RefreshToken,
		User:         claims.User,
	}, nil
}
