package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

// AnalyticsService reads class-level aggregates computed by the backend.
type AnalyticsService interface {
	Class(ctx context.Context) (*models.ClassAnalytics, error)
}

type analyticsService struct {
	api    apiclient.Client
	logger zerolog.Logger
}

func NewAnalyticsService(api apiclient.Client, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		api:    api,
		logger: logger,
	}
}

func (s *analyticsService) Class(ctx context.Context) (*models.ClassAnalytics, error) {
	var analytics models.ClassAnalytics
	if err := s.api.Get(ctx, "analytics/class", &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}
