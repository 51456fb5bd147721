package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/fintrack-dev/fintrack/internal/backend"
	"github.com/fintrack-dev/fintrack/internal/session"
)

// googleProfile is the OpenID Connect userinfo response
type googleProfile struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// GoogleEnabled reports whether Google sign-in is configured.
func (s *Service) GoogleEnabled() bool {
	return s.google != nil
}

// GoogleAuthURL returns the provider consent URL for the given state value.
func (s *Service) GoogleAuthURL(state string) string {
	return s.google.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// SignInWithGoogle completes the OAuth code flow: exchanges the authorization
// code, reads the provider profile, and trades it for a backend token pair
// authenticated with the provider's id_token. A nil result rejects the
// sign-in and blocks session creation.
func (s *Service) SignInWithGoogle(ctx context.Context, code string) *session.Session {
	tok, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Google code exchange failed")
		return nil
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		s.logger.Warn().Msg("Google token response carried no id_token")
		return nil
	}

	profile, err := s.fetchGoogleProfile(ctx, tok)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to fetch Google profile")
		return nil
	}

	resp, err := s.backend.GoogleAuth(ctx, idToken, backend.GoogleAuthRequest{
		GoogleID:     profile.Sub,
		Email:        profile.Email,
		FirstName:    profile.GivenName,
		LastName:     profile.FamilyName,
		ProfileImage: profile.Picture,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Backend Google auth rejected")
		return nil
	}
	if resp.AccessToken == "" {
		s.logger.Warn().Msg("Backend Google auth response carried no access token")
		return nil
	}

	image := resp.User.Image
	if image == "" {
		image = profile.Picture
	}

	return &session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User: session.User{
			ID:    resp.User.ID,
			Email: resp.User.Email,
			Name:  resp.User.Name,
			Image: image,
		},
	}
}

func (s *Service) fetchGoogleProfile(ctx context.Context, tok *oauth2.Token) (*googleProfile, error) {
	resp, err := s.google.Client(ctx, tok).Get(s.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to reach userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	return &profile, nil
}
