package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

type ReportService interface {
	Weekly(ctx context.Context) (*models.WeeklyReport, error)
}

type reportService struct {
	api    apiclient.Client
	logger zerolog.Logger
}

func NewReportService(api apiclient.Client, logger zerolog.Logger) ReportService {
	return &reportService{
		api:    api,
		logger: logger,
	}
}

func (s *reportService) Weekly(ctx context.Context) (*models.WeeklyReport, error) {
	var report models.WeeklyReport
	if err := s.api.Get(ctx, "reports/weekly", &report); err != nil {
		return nil, err
	}
	return &report, nil
}
