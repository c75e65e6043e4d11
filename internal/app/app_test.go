package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prezadito/data-detective-sub001/internal/config"
	"github.com/prezadito/data-detective-sub001/internal/engine"
)

func testConfig(baseURL, storagePath string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Address:      "127.0.0.1:0",
			WriteTimeout: 5 * time.Second,
		},
		API: config.APIConfig{
			BaseURL: baseURL,
			Timeout: time.Second,
		},
		Storage:      config.StorageConfig{Path: storagePath},
		Engine:       config.EngineConfig{InitTimeout: 10 * time.Second},
		Connectivity: config.ConnectivityConfig{Debounce: 10 * time.Millisecond},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST"},
		},
	}
}

func newTestApp(t *testing.T, storagePath string) *App {
	t.Helper()

	backend := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(backend.Close)

	a, err := New(context.Background(), testConfig(backend.URL+"/api/v1/", storagePath), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, a.engine.Wait(ctx))

	return a
}

func get(a *App, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestApp_ServesPages(t *testing.T) {
	a := newTestApp(t, MemoryStoragePath)

	rec := get(a, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"engine":"ready"`)

	rec = get(a, "/practice")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestApp_ExposesMetrics(t *testing.T) {
	a := newTestApp(t, MemoryStoragePath)

	rec := get(a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestApp_SQLiteStorage(t *testing.T) {
	a := newTestApp(t, filepath.Join(t.TempDir(), "local.db"))

	rec := get(a, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApp_ShutdownClosesEngine(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	defer backend.Close()

	a, err := New(context.Background(), testConfig(backend.URL+"/", MemoryStoragePath), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, a.engine.Wait(context.Background()))

	require.NoError(t, a.Shutdown(context.Background()))
	assert.Equal(t, engine.StatusUninitialized, a.engine.Status())
}

func TestApp_RejectsBadBaseURL(t *testing.T) {
	_, err := New(context.Background(), testConfig("not a url", MemoryStoragePath), zerolog.Nop())
	assert.Error(t, err)
}
