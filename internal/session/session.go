// Package session holds the authentication state of the local user.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/models"
	"github.com/prezadito/data-detective-sub001/internal/service"
	"github.com/prezadito/data-detective-sub001/internal/storage"
)

type Status string

const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

var ErrNoRefreshToken = errors.New("no refresh token stored")

type Snapshot struct {
	Status Status       `json:"status"`
	User   *models.User `json:"user"`
}

func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// Manager is the single owner of the session. It starts in StatusLoading
// until Init reads the stored token.
type Manager struct {
	auth    service.AuthService
	storage storage.Storage
	logger  zerolog.Logger

	mu     sync.RWMutex
	status Status
	user   *models.User
}

func NewManager(auth service.AuthService, store storage.Storage, logger zerolog.Logger) *Manager {
	return &Manager{
		auth:    auth,
		storage: store,
		logger:  logger.With().Str("component", "session").Logger(),
		status:  StatusLoading,
	}
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{Status: m.status}
	if m.user != nil {
		user := *m.user
		snap.User = &user
	}
	return snap
}

// Init resolves the loading state from the stored access token. No request
// is sent to the backend.
func (m *Manager) Init(ctx context.Context) error {
	if err := m.Sync(ctx); err != nil {
		return err
	}

	snap := m.Snapshot()
	if snap.Authenticated() {
		m.logger.Info().Str("email", snap.User.Email).Str("role", string(snap.User.Role)).Msg("Session restored")
	}
	return nil
}

// Sync re-reads the stored access token. The API client removes the token on
// a 401, so a later Sync moves the session to unauthenticated.
func (m *Manager) Sync(ctx context.Context) error {
	token, ok, err := m.storage.Get(ctx, models.AccessTokenKey)
	if err != nil {
		m.set(StatusUnauthenticated, nil)
		return fmt.Errorf("failed to read access token: %w", err)
	}
	if !ok || token == "" {
		m.set(StatusUnauthenticated, nil)
		return nil
	}

	claims, err := DecodeToken(token)
	if err != nil {
		m.logger.Debug().Err(err).Msg("Stored access token rejected")
		m.set(StatusUnauthenticated, nil)
		return nil
	}

	m.set(StatusAuthenticated, claims.User())
	return nil
}

// Login replaces any current session with the one for creds. Tokens left by
// a previous identity are revoked and removed before the new ones are
// stored, so two users never share storage.
func (m *Manager) Login(ctx context.Context, creds models.LoginRequest) (*models.User, error) {
	if prev := m.Snapshot(); prev.Authenticated() {
		m.logger.Info().Str("email", prev.User.Email).Msg("Ending previous session before login")
	}
	if err := m.clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear previous session: %w", err)
	}

	pair, err := m.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	user, err := m.adopt(ctx, pair)
	if err != nil {
		return nil, err
	}

	m.logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("Logged in")
	return user, nil
}

// Logout revokes the refresh token on a best-effort basis and always clears
// both stored tokens.
func (m *Manager) Logout(ctx context.Context) error {
	return m.clear(ctx)
}

func (m *Manager) clear(ctx context.Context) error {
	refresh, ok, err := m.storage.Get(ctx, models.RefreshTokenKey)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Failed to read refresh token")
	}
	if ok && refresh != "" {
		if err := m.auth.Logout(ctx, refresh); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to revoke refresh token")
		}
	}

	m.set(StatusUnauthenticated, nil)
	return m.removeTokens(ctx)
}

func (m *Manager) removeTokens(ctx context.Context) error {
	return errors.Join(
		m.storage.Remove(ctx, models.AccessTokenKey),
		m.storage.Remove(ctx, models.RefreshTokenKey),
	)
}

// Register creates an account. The current session is left untouched.
func (m *Manager) Register(ctx context.Context, data models.RegisterRequest) (*models.User, error) {
	return m.auth.Register(ctx, data)
}

// Refresh exchanges the stored refresh token for a new pair.
func (m *Manager) Refresh(ctx context.Context) (*models.User, error) {
	refresh, ok, err := m.storage.Get(ctx, models.RefreshTokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}
	if !ok || refresh == "" {
		return nil, ErrNoRefreshToken
	}

	pair, err := m.auth.Refresh(ctx, refresh)
	if err != nil {
		return nil, err
	}

	if pair.RefreshToken == "" {
		pair.RefreshToken = refresh
	}

	return m.adopt(ctx, pair)
}

// adopt stores pair and makes its user current. A failed write leaves no
// tokens behind and the session unauthenticated.
func (m *Manager) adopt(ctx context.Context, pair *models.TokenPair) (*models.User, error) {
	claims, err := DecodeToken(pair.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("backend returned an unusable access token: %w", err)
	}

	if err := m.storeTokens(ctx, pair); err != nil {
		m.set(StatusUnauthenticated, nil)
		if rmErr := m.removeTokens(ctx); rmErr != nil {
			m.logger.Error().Err(rmErr).Msg("Failed to remove partially stored tokens")
		}
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	user := claims.User()
	m.set(StatusAuthenticated, user)

	out := *user
	return &out, nil
}

func (m *Manager) storeTokens(ctx context.Context, pair *models.TokenPair) error {
	if err := m.storage.Set(ctx, models.AccessTokenKey, pair.AccessToken); err != nil {
		return err
	}
	if pair.RefreshToken == "" {
		return m.storage.Remove(ctx, models.RefreshTokenKey)
	}
	return m.storage.Set(ctx, models.RefreshTokenKey, pair.RefreshToken)
}

func (m *Manager) set(status Status, user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.user = user
}
