package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

type AuthService interface {
	Login(ctx context.Context, creds models.LoginRequest) (*models.TokenPair, error)
	Register(ctx context.Context, data models.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

type authService struct {
	api    apiclient.Client
	logger zerolog.Logger
}

func NewAuthService(api apiclient.Client, logger zerolog.Logger) AuthService {
	return &authService{
		api:    api,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, creds models.LoginRequest) (*models.TokenPair, error) {
	var pair models.TokenPair
	if err := s.api.Post(ctx, "auth/login", creds, &pair); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("email", creds.Email).Msg("Login accepted")
	return &pair, nil
}

func (s *authService) Register(ctx context.Context, data models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := s.api.Post(ctx, "auth/register", data, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.api.Do(ctx, http.MethodPost, "auth/logout", models.RefreshRequest{RefreshToken: refreshToken}, nil)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrEmptyRefreshToken
	}

	var pair models.TokenPair
	if err := s.api.Post(ctx, "auth/refresh", models.RefreshRequest{RefreshToken: refreshToken}, &pair); err != nil {
		return nil, err
	}

	return &pair, nil
}
