package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

type ProgressService interface {
	Me(ctx context.Context) (*models.ProgressResponse, error)
}

type progressService struct {
	api    apiclient.Client
	logger zerolog.Logger
}

func NewProgressService(api apiclient.Client, logger zerolog.Logger) ProgressService {
	return &progressService{
		api:    api,
		logger: logger,
	}
}

func (s *progressService) Me(ctx context.Context) (*models.ProgressResponse, error) {
	var progress models.ProgressResponse
	if err := s.api.Get(ctx, "progress/me", &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}
