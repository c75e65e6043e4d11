package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

type DatasetService interface {
	List(ctx context.Context) ([]models.Dataset, error)
	Get(ctx context.Context, id int) (*models.Dataset, error)
	Create(ctx context.Context, req models.DatasetRequest) (*models.Dataset, error)
	Update(ctx context.Context, id int, req models.DatasetRequest) (*models.Dataset, error)
	Delete(ctx context.Context, id int) error
}

type datasetService struct {
	api    apiclient.Client
	logger zerolog.Logger
}

func NewDatasetService(api apiclient.Client, logger zerolog.Logger) DatasetService {
	return &datasetService{
		api:    api,
		logger: logger,
	}
}

func (s *datasetService) List(ctx context.Context) ([]models.Dataset, error) {
	var datasets []models.Dataset
	if err := s.api.Get(ctx, "datasets", &datasets); err != nil {
		return nil, err
	}
	return datasets, nil
}

func (s *datasetService) Get(ctx context.Context, id int) (*models.Dataset, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	var dataset models.Dataset
	if err := s.api.Get(ctx, fmt.Sprintf("datasets/%d", id), &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (s *datasetService) Create(ctx context.Context, req models.DatasetRequest) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := s.api.Post(ctx, "datasets", req, &dataset); err != nil {
		return nil, err
	}

	s.logger.Info().Int("dataset_id", dataset.ID).Str("name", dataset.Name).Msg("Dataset created")
	return &dataset, nil
}

func (s *datasetService) Update(ctx context.Context, id int, req models.DatasetRequest) (*models.Dataset, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	var dataset models.Dataset
	if err := s.api.Put(ctx, fmt.Sprintf("datasets/%d", id), req, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (s *datasetService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidID
	}

	if err := s.api.Delete(ctx, fmt.Sprintf("datasets/%d", id), nil); err != nil {
		return err
	}

	s.logger.Info().Int("dataset_id", id).Msg("Dataset deleted")
	return nil
}
