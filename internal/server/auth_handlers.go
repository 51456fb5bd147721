package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/fintrack-dev/fintrack/internal/session"
)

const (
	oauthReturnCookie = "oauth_return"
	oauthErrorURL     = loginPath + "?error=OAuthSignin"
)

// LoginRequest represents a credential sign-in request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest represents a registration request, validated at the edge
// before forwarding
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=2"`
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// validationMessage maps a failed validation to the form error text
func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return "Invalid request"
	}

	fe := fieldErrors[0]
	switch {
	case fe.Field() == "Email":
		return "Invalid email"
	case fe.Field() == "Password":
		return "Password must be at least 6 characters"
	case fe.Field() == "Username":
		return "Name is too short"
	case fe.Field() == "FirstName":
		return "First name is too short"
	case fe.Field() == "LastName":
		return "Last name is too short"
	default:
		return "Invalid " + fe.Field()
	}
}

// login performs a credential sign-in: the password is forwarded to the
// backend, never verified here. Success issues the session cookie plus the
// frontend-readable token cookies; any failed flow answers 401.
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	// Stale cookies from a previous attempt are cleared before every sign-in
	session.ClearAuthCookies(c.Writer)

	if !s.sessions.Enabled() {
		s.logger.Error().Msg("Sign-in attempted without SESSION_SECRET configured")
		respondError(c, http.StatusInternalServerError, "Authentication is not configured")
		return
	}

	sess := s.auth.SignInWithCredentials(c.Request.Context(), req.Email, req.Password)
	if sess == nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !s.issueSession(c, sess, true) {
		return
	}

	data, err := json.Marshal(sess)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	s.logger.Info().Str("user_id", sess.User.ID).Str("email", sess.User.Email).Msg("User logged in")
	respondData(c, http.StatusOK, data)
}

// issueSession writes the signed session cookie and, for credential sign-in,
// the access_token/refresh_token cookies. Reports whether it succeeded; on
// failure the error envelope has already been written.
func (s *Server) issueSession(c *gin.Context, sess *session.Session, withTokenCookies bool) bool {
	token, err := s.sessions.Encode(sess)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode session")
		respondError(c, http.StatusInternalServerError, "Failed to create session")
		return false
	}

	maxAge := int(s.sessions.MaxAge().Seconds())
	session.SetSessionCookie(c.Writer, token, maxAge)

	if withTokenCookies {
		session.SetTokenCookie(c.Writer, session.AccessTokenCookie, sess.AccessToken, maxAge)
		if sess.RefreshToken != "" {
			session.SetTokenCookie(c.Writer, session.RefreshTokenCookie, sess.RefreshToken, maxAge)
		}
	}
	return true
}

// getSession copies the session record out of the signed cookie and hands it
// to the browser. No session yields a null payload, not an error.
func (s *Server) getSession(c *gin.Context) {
	sess := s.resolver.Session(c.Request)
	if sess == nil {
		respondData(c, http.StatusOK, json.RawMessage("null"))
		return
	}

	data, err := json.Marshal(sess)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to read session")
		return
	}
	respondData(c, http.StatusOK, data)
}

// logout clears the local session and revokes the backend one best-effort:
// an unreachable backend never blocks local sign-out.
func (s *Server) logout(c *gin.Context) {
	if token := s.resolver.Resolve(c.Request); token != "" {
		s.auth.SignOut(token)
	}
	session.ClearAuthCookies(c.Writer)
	respondData(c, http.StatusOK, json.RawMessage("null"))
}

// register validates the form payload at the edge, then forwards the raw
// body to the backend unchanged
func (s *Server) register(c *gin.Context) {
	body, ok := readJSONBody(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	data, err := s.backend.Register(c.Request.Context(), body)
	normalize(c, http.StatusCreated, data, err, "Registration failed")
}

// confirmEmail forwards an email confirmation token to the backend
func (s *Server) confirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondError(c, http.StatusBadRequest, "Token is required")
		return
	}

	data, err := s.backend.ConfirmEmail(c.Request.Context(), token)
	normalize(c, http.StatusOK, data, err, "Email confirmation failed")
}

// googleSignIn redirects to the provider consent screen with a state cookie
// protecting the callback
func (s *Server) googleSignIn(c *gin.Context) {
	// Stale cookies from a previous attempt are cleared before every sign-in;
	// a leftover access_token cookie would shadow the new session at resolution
	session.ClearAuthCookies(c.Writer)

	state := ulid.Make().String()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     session.StateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if returnURL := c.Query("returnUrl"); strings.HasPrefix(returnURL, "/") {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     oauthReturnCookie,
			Value:    returnURL,
			Path:     "/",
			MaxAge:   600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	c.Redirect(http.StatusFound, s.auth.GoogleAuthURL(state))
}

// googleCallback completes the OAuth flow. Every failure path rejects the
// sign-in and sends the browser back to the login page; no session is
// created on a partial exchange.
func (s *Server) googleCallback(c *gin.Context) {
	stateCookie, stateErr := c.Request.Cookie(session.StateCookie)
	session.ClearCookie(c.Writer, session.StateCookie)

	if c.Query("error") != "" {
		s.logger.Warn().Str("error", c.Query("error")).Msg("Google sign-in denied by provider")
		c.Redirect(http.StatusFound, oauthErrorURL)
		return
	}

	if stateErr != nil || stateCookie.Value == "" || stateCookie.Value != c.Query("state") {
		s.logger.Warn().Msg("Google sign-in state mismatch")
		c.Redirect(http.StatusFound, oauthErrorURL)
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, oauthErrorURL)
		return
	}

	if !s.sessions.Enabled() {
		s.logger.Error().Msg("Google sign-in attempted without SESSION_SECRET configured")
		c.Redirect(http.StatusFound, oauthErrorURL)
		return
	}

	sess := s.auth.SignInWithGoogle(c.Request.Context(), code)
	if sess == nil {
		c.Redirect(http.StatusFound, oauthErrorURL)
		return
	}

	token, err := s.sessions.Encode(sess)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode session")
		c.Redirect(http.StatusFound, oauthErrorURL)
		return
	}
	session.SetSessionCookie(c.Writer, token, int(s.sessions.MaxAge().Seconds()))

	target := "/dashboard"
	if ck, err := c.Request.Cookie(oauthReturnCookie); err == nil && strings.HasPrefix(ck.Value, "/") {
		target = ck.Value
		session.ClearCookie(c.Writer, oauthReturnCookie)
	}

	s.logger.Info().Str("user_id", sess.User.ID).Str("email", sess.User.Email).Msg("User logged in via Google")
	c.Redirect(http.StatusFound, target)
}
