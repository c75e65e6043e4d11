package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

type ChallengeService interface {
	List(ctx context.Context) ([]models.Unit, error)
	Unit(ctx context.Context, unitID int) (*models.Unit, error)
	Get(ctx context.Context, unitID, challengeID int) (*models.ChallengeDetail, error)
	AccessHint(ctx context.Context, req models.HintAccessRequest) (*models.HintAccessResponse, error)
}

type challengeService struct {
	api    apiclient.Client
	logger zerolog.Logger
}

func NewChallengeService(api apiclient.Client, logger zerolog.Logger) ChallengeService {
	return &challengeService{
		api:    api,
		logger: logger,
	}
}

func (s *challengeService) List(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	if err := s.api.Get(ctx, "challenges", &units); err != nil {
		return nil, err
	}
	return units, nil
}

func (s *challengeService) Unit(ctx context.Context, unitID int) (*models.Unit, error) {
	if unitID <= 0 {
		return nil, ErrInvalidID
	}

	var unit models.Unit
	if err := s.api.Get(ctx, fmt.Sprintf("challenges/%d", unitID), &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (s *challengeService) Get(ctx context.Context, unitID, challengeID int) (*models.ChallengeDetail, error) {
	if unitID <= 0 || challengeID <= 0 {
		return nil, ErrInvalidID
	}

	var detail models.ChallengeDetail
	if err := s.api.Get(ctx, fmt.Sprintf("challenges/%d/%d", unitID, challengeID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *challengeService) AccessHint(ctx context.Context, req models.HintAccessRequest) (*models.HintAccessResponse, error) {
	var resp models.HintAccessResponse
	if err := s.api.Post(ctx, "hints/access", req, &resp); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("unit_id", req.UnitID).
		Int("challenge_id", req.ChallengeID).
		Int("hint_level", req.HintLevel).
		Msg("Hint accessed")

	return &resp, nil
}
