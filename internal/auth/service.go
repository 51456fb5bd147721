package auth

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/fintrack-dev/fintrack/internal/backend"
	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/session"
)

// Service runs the sign-in and sign-out flows against the backend and the
// OAuth provider. It never returns transport errors to callers: every failed
// flow degrades to "authentication failed" (a nil session).
type Service struct {
	backend     *backend.Client
	logger      zerolog.Logger
	google      *oauth2.Config // nil when OAuth credentials are absent
	userinfoURL string
}

const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// NewService creates the auth service. Google sign-in stays disabled unless
// both OAuth client id and secret are configured.
func NewService(client *backend.Client, cfg *config.Config, log zerolog.Logger) *Service {
	var googleCfg *oauth2.Config
	if cfg.Google.Enabled() {
		googleCfg = &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  cfg.Server.BaseURL + "/api/auth/callback/google",
			Scopes:       []string{"openid", "email", "profile"},
		}
	}

	return &Service{
		backend:     client,
		logger:      log,
		google:      googleCfg,
		userinfoURL: googleUserinfoURL,
	}
}

// SignInWithCredentials forwards email/password to the backend login
// endpoint. A nil result means authentication failed; the reason is logged,
// never surfaced.
func (s *Service) SignInWithCredentials(ctx context.Context, email, password string) *session.Session {
	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("Credential login rejected")
		return nil
	}
	if resp.AccessToken == "" {
		s.logger.Warn().Str("email", email).Msg("Login response carried no access token")
		return nil
	}

	return &session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User: session.User{
			ID:    resp.User.ID,
			Email: resp.User.Email,
			Name:  resp.User.Name,
			Image: resp.User.Image,
		},
	}
}

// SignOut revokes the backend session on a best-effort basis. The call runs
// detached from the request; failure is logged and never propagated, so the
// local session is always cleared.
func (s *Service) SignOut(token string) {
	go s.signOut(token)
}

func (s *Service) signOut(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.backend.Logout(session.WithToken(ctx, token)); err != nil {
		s.logger.Warn().Err(err).Msg("Backend logout failed, session cleared locally only")
		return
	}
	s.logger.Debug().Msg("Backend session revoked")
}
