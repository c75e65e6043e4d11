package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prezadito/data-detective-sub001/internal/apiclient"
	"github.com/prezadito/data-detective-sub001/internal/apperr"
	"github.com/prezadito/data-detective-sub001/internal/config"
	"github.com/prezadito/data-detective-sub001/internal/models"
	"github.com/prezadito/data-detective-sub001/internal/storage"
)

type recordedRequest struct {
	Method string
	URI    string
	Body   string
}

type backend struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(w http.ResponseWriter, r *http.Request)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{Method: r.Method, URI: r.URL.RequestURI(), Body: string(body)})
	b.mu.Unlock()
	b.respond(w, r)
}

func (b *backend) last(t *testing.T) recordedRequest {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.requests)
	return b.requests[len(b.requests)-1]
}

func (b *backend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func respondJSON(status int, v interface{}) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

func newServices(t *testing.T, respond func(http.ResponseWriter, *http.Request)) (*Services, *backend) {
	t.Helper()

	b := &backend{respond: respond}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	api, err := apiclient.New(config.APIConfig{
		BaseURL:    srv.URL + "/api/v1/",
		Timeout:    time.Second,
		RetryLimit: 0,
	}, storage.NewMemoryStorage(), zerolog.Nop())
	require.NoError(t, err)

	return New(api, zerolog.Nop()), b
}

func TestAuthService_Login(t *testing.T) {
	svc, b := newServices(t, respondJSON(http.StatusOK, models.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "bearer",
	}))

	pair, err := svc.Auth.Login(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "access", pair.AccessToken)
	assert.Equal(t, "refresh", pair.RefreshToken)

	req := b.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/auth/login", req.URI)
	assert.JSONEq(t, `{"email":"a@b.com","password":"x"}`, req.Body)
}

func TestAuthService_LogoutSendsRefreshToken(t *testing.T) {
	svc, b := newServices(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, svc.Auth.Logout(context.Background(), "refresh"))
	req := b.last(t)
	assert.Equal(t, "/api/v1/auth/logout", req.URI)
	assert.JSONEq(t, `{"refresh_token":"refresh"}`, req.Body)
}

func TestAuthService_RefreshRequiresToken(t *testing.T) {
	svc, b := newServices(t, respondJSON(http.StatusOK, models.TokenPair{}))

	_, err := svc.Auth.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyRefreshToken)
	assert.Zero(t, b.count())
}

func TestUserService_ListBuildsQuery(t *testing.T) {
	svc, b := newServices(t, respondJSON(http.StatusOK, []models.UserWithStats{
		{User: models.User{ID: 3, Name: "Sam", Role: models.RoleStudent}, TotalPoints: 40},
	}))

	users, err := svc.Users.List(context.Background(), models.UserListParams{
		Role:   models.RoleStudent,
		Search: "sam",
		Offset: 20,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 40, users[0].TotalPoints)
	assert.Equal(t, "/api/v1/users?limit=10&role=student&search=sam&skip=20", b.last(t).URI)
}

func TestUserService_ListRejectsUnknownRole(t *testing.T) {
	svc, b := newServices(t, respondJSON(http.StatusOK, nil))

	_, err := svc.Users.List(context.Background(), models.UserListParams{Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidUserListRole)
	assert.Zero(t, b.count())
}

func TestServices_RejectInvalidIDsLocally(t *testing.T) {
	svc, b := newServices(t, respondJSON(http.StatusOK, nil))
	ctx := context.Background()

	_, err := svc.Users.Get(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = svc.Challenges.Get(ctx, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, svc.Datasets.Delete(ctx, 0), ErrInvalidID)
	_, err = svc.CustomChallenges.Update(ctx, 0, models.CustomChallengeRequest{})
	assert.ErrorIs(t, err, ErrInvalidID)

	assert.Zero(t, b.count())
}

func TestServices_PropagateErrorsUnmodified(t *testing.T) {
	svc, _ := newServices(t, respondJSON(http.StatusNotFound, map[string]string{"detail": "Challenge not found"}))

	_, err := svc.Challenges.Get(context.Background(), 1, 99)
	var httpErr *apperr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "challenges/1/99", httpErr.Path)
}

func TestDatasetService_CRUDPaths(t *testing.T) {
	svc, b := newServices(t, respondJSON(http.StatusOK, models.Dataset{ID: 5, Name: "movies"}))
	ctx := context.Background()

	_, err := svc.Datasets.Create(ctx, models.DatasetRequest{Name: "movies"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, b.last(t).Method)
	assert.Equal(t, "/api/v1/datasets", b.last(t).URI)

	_, err = svc.Datasets.Update(ctx, 5, models.DatasetRequest{Name: "films"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, b.last(t).Method)
	assert.Equal(t, "/api/v1/datasets/5", b.last(t).URI)

	require.NoError(t, svc.Datasets.Delete(ctx, 5))
	assert.Equal(t, http.MethodDelete, b.last(t).Method)
}

func TestCustomChallengeService_List(t *testing.T) {
	svc, b := newServices(t, respondJSON(http.StatusOK, []models.CustomChallenge{
		{ID: 1, Title: "Top rated", Difficulty: "easy"},
		{ID: 2, Title: "Busiest year", Difficulty: "hard"},
	}))

	challenges, err := svc.CustomChallenges.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, challenges, 2)
	assert.Equal(t, "/api/v1/custom-challenges", b.last(t).URI)
}

func TestChallengeService_AccessHint(t *testing.T) {
	svc, b := newServices(t, respondJSON(http.StatusCreated, models.HintAccessResponse{ID: 1, UnitID: 2, ChallengeID: 3, HintLevel: 1}))

	resp, err := svc.Challenges.AccessHint(context.Background(), models.HintAccessRequest{UnitID: 2, ChallengeID: 3, HintLevel: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.HintLevel)
	assert.Equal(t, "/api/v1/hints/access", b.last(t).URI)
}

func TestReadOnlyServices(t *testing.T) {
	svc, b := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/progress/me":
			respondJSON(http.StatusOK, models.ProgressResponse{Summary: models.ProgressSummary{TotalPoints: 120}})(w, r)
		case "/api/v1/analytics/class":
			respondJSON(http.StatusOK, models.ClassAnalytics{TotalStudents: 30})(w, r)
		case "/api/v1/reports/weekly":
			respondJSON(http.StatusOK, models.WeeklyReport{WeekStart: "2024-01-01"})(w, r)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	progress, err := svc.Progress.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, progress.Summary.TotalPoints)

	analytics, err := svc.Analytics.Class(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, analytics.TotalStudents)

	report, err := svc.Reports.Weekly(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", report.WeekStart)

	assert.Equal(t, 3, b.count())
}
