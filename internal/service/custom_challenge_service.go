package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

type CustomChallengeService interface {
	List(ctx context.Context) ([]models.CustomChallenge, error)
	Get(ctx context.Context, id int) (*models.CustomChallenge, error)
	Create(ctx context.Context, req models.CustomChallengeRequest) (*models.CustomChallenge, error)
	Update(ctx context.Context, id int, req models.CustomChallengeRequest) (*models.CustomChallenge, error)
	Delete(ctx context.Context, id int) error
}

type customChallengeService struct {
	api    apiclient.Client
	logger zerolog.Logger
}

func NewCustomChallengeService(api apiclient.Client, logger zerolog.Logger) CustomChallengeService {
	return &customChallengeService{
		api:    api,
		logger: logger,
	}
}

func (s *customChallengeService) List(ctx context.Context) ([]models.CustomChallenge, error) {
	var challenges []models.CustomChallenge
	if err := s.api.Get(ctx, "custom-challenges", &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}

func (s *customChallengeService) Get(ctx context.Context, id int) (*models.CustomChallenge, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	var challenge models.CustomChallenge
	if err := s.api.Get(ctx, fmt.Sprintf("custom-challenges/%d", id), &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (s *customChallengeService) Create(ctx context.Context, req models.CustomChallengeRequest) (*models.CustomChallenge, error) {
	var challenge models.CustomChallenge
	if err := s.api.Post(ctx, "custom-challenges", req, &challenge); err != nil {
		return nil, err
	}

	s.logger.Info().Int("challenge_id", challenge.ID).Str("title", challenge.Title).Msg("Custom challenge created")
	return &challenge, nil
}

func (s *customChallengeService) Update(ctx context.Context, id int, req models.CustomChallengeRequest) (*models.CustomChallenge, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	var challenge models.CustomChallenge
	if err := s.api.Put(ctx, fmt.Sprintf("custom-challenges/%d", id), req, &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (s *customChallengeService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidID
	}

	if err := s.api.Delete(ctx, fmt.Sprintf("custom-challenges/%d", id), nil); err != nil {
		return err
	}

	s.logger.Info().Int("challenge_id", id).Msg("Custom challenge deleted")
	return nil
}
