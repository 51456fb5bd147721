package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/fintrack-dev/fintrack/internal/session"
)

const (
	requestIDHeader = "X-Request-ID"
	loginPath       = "/auth/login"
)

// requestIDMiddleware assigns a ULID to every request, reusing an inbound id
// when the caller supplied one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("HTTP request")
	}
}

// forwardAuthMiddleware copies the inbound Authorization header into the
// request context unchanged, scheme included. Proxy routes never re-resolve
// the token: the backend receives exactly what the browser sent, and requests
// without a header go out unauthenticated.
func forwardAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			ctx := session.WithAuthorization(c.Request.Context(), header)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// resolveTokenMiddleware resolves the caller's token with the cookie-first,
// session-fallback precedence and stores it in the request context. An empty
// resolution stores nothing: absence means unauthenticated, not an error.
func (s *Server) resolveTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := s.resolver.Resolve(c.Request); token != "" {
			ctx := session.WithToken(c.Request.Context(), token)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// routeGuard gates navigation to protected path prefixes: callers without a
// resolvable token are redirected to the login page with the originally
// requested path in returnUrl. Public paths never pass through this guard.
func (s *Server) routeGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.resolver.Resolve(c.Request) != "" {
			c.Next()
			return
		}

		query := url.Values{}
		query.Set("returnUrl", c.Request.URL.Path)
		c.Redirect(http.StatusFound, loginPath+"?"+query.Encode())
		c.Abort()
	}
}
