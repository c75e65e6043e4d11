package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

type UserService interface {
	Me(ctx context.Context) (*models.User, error)
	UpdateMe(ctx context.Context, req models.UpdateUserRequest) (*models.User, error)
	List(ctx context.Context, params models.UserListParams) ([]models.UserWithStats, error)
	Get(ctx context.Context, id int) (*models.UserWithStats, error)
}

type userService struct {
	api    apiclient.Client
	logger zerolog.Logger
}

func NewUserService(api apiclient.Client, logger zerolog.Logger) UserService {
	return &userService{
		api:    api,
		logger: logger,
	}
}

func (s *userService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.api.Get(ctx, "users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) UpdateMe(ctx context.Context, req models.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.api.Put(ctx, "users/me", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) List(ctx context.Context, params models.UserListParams) ([]models.UserWithStats, error) {
	if params.Role != "" && !params.Role.Valid() {
		return nil, ErrInvalidUserListRole
	}

	query := url.Values{}
	if params.Role != "" {
		query.Set("role", string(params.Role))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Offset > 0 {
		query.Set("skip", strconv.Itoa(params.Offset))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	path := "users"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var users []models.UserWithStats
	if err := s.api.Get(ctx, path, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id int) (*models.UserWithStats, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	var user models.UserWithStats
	if err := s.api.Get(ctx, fmt.Sprintf("users/%d", id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
