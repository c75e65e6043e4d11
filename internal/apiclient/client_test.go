package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prezadito/data-detective-sub001/internal/apperr"
	"github.com/prezadito/data-detective-sub001/internal/config"
	"github.com/prezadito/data-detective-sub001/internal/models"
	"github.com/prezadito/data-detective-sub001/internal/storage"
)

type reporter struct {
	mu     sync.Mutex
	events []bool
}

func (r *reporter) SetOnline(online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, online)
}

func (r *reporter) last() (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return false, false
	}
	return r.events[len(r.events)-1], true
}

func testConfig(baseURL string) config.APIConfig {
	return config.APIConfig{
		BaseURL:       baseURL + "/api/v1",
		Timeout:       2 * time.Second,
		RetryLimit:    2,
		RetryDelay:    time.Millisecond,
		RetryStatuses: []int{408, 413, 429, 500, 502, 503, 504},
	}
}

func newTestClient(t *testing.T, cfg config.APIConfig, store storage.Storage, options ...Option) Client {
	t.Helper()
	c, err := New(cfg, store, zerolog.Nop(), options...)
	require.NoError(t, err)
	return c
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.RequestURI()
		_ = json.NewEncoder(w).Encode(models.User{ID: 7, Email: "ann@example.com"})
	}))
	defer srv.Close()

	store := storage.NewMemoryStorage()
	require.NoError(t, store.Set(context.Background(), models.AccessTokenKey, "abc"))

	c := newTestClient(t, testConfig(srv.URL), store)

	var user models.User
	require.NoError(t, c.Get(context.Background(), "users/me?x=1", &user))
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "/api/v1/users/me?x=1", gotPath)
	assert.Equal(t, 7, user.ID)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, testConfig(srv.URL), storage.NewMemoryStorage())
	require.NoError(t, c.Delete(context.Background(), "datasets/1", nil))
	assert.False(t, hasAuth)
}

func TestClient_RetriesIdempotentOnAllowList(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, testConfig(srv.URL), storage.NewMemoryStorage())

	var out map[string]bool
	require.NoError(t, c.Get(context.Background(), "challenges", &out))
	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, out["ok"])
}

func TestClient_GivesUpAfterRetryLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"boom"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, testConfig(srv.URL), storage.NewMemoryStorage())

	err := c.Put(context.Background(), "users/me", map[string]string{"name": "x"}, nil)
	var httpErr *apperr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, http.MethodPut, httpErr.Method)
	assert.JSONEq(t, `{"detail":"boom"}`, string(httpErr.Body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_NeverRetriesPost(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, testConfig(srv.URL), storage.NewMemoryStorage())

	err := c.Post(context.Background(), "auth/login", models.LoginRequest{Email: "a@b.c", Password: "pw"}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DoesNotRetryOutsideAllowList(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, testConfig(srv.URL), storage.NewMemoryStorage())

	err := c.Get(context.Background(), "challenges/9", nil)
	var httpErr *apperr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_UnauthorizedRemovesOnlyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Set(ctx, models.AccessTokenKey, "stale"))
	require.NoError(t, store.Set(ctx, models.RefreshTokenKey, "refresh"))

	c := newTestClient(t, testConfig(srv.URL), store)

	err := c.Get(ctx, "users/me", nil)
	var httpErr *apperr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)

	_, ok, _ := store.Get(ctx, models.AccessTokenKey)
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, models.RefreshTokenKey)
	assert.True(t, ok)
}

func TestClient_NetworkErrorReportsOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cfg := testConfig(srv.URL)
	srv.Close()

	rep := &reporter{}
	c := newTestClient(t, cfg, storage.NewMemoryStorage(), WithConnectivity(rep))

	err := c.Get(context.Background(), "progress/me", nil)
	var networkErr *apperr.NetworkError
	require.ErrorAs(t, err, &networkErr)
	assert.True(t, apperr.IsRetryable(err))

	online, ok := rep.last()
	require.True(t, ok)
	assert.False(t, online)

	rep.mu.Lock()
	assert.Len(t, rep.events, 3)
	rep.mu.Unlock()
}

func TestClient_TimeoutIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	c := newTestClient(t, cfg, storage.NewMemoryStorage())

	err := c.Get(context.Background(), "analytics/class", nil)
	var timeoutErr *apperr.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CancelDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.RetryDelay = time.Hour
	c := newTestClient(t, cfg, storage.NewMemoryStorage())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Get(ctx, "datasets", nil)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New(config.APIConfig{BaseURL: "not a url"}, storage.NewMemoryStorage(), zerolog.Nop())
	assert.Error(t, err)
}
