package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prezadito/data-detective-sub001/internal/config"
)

type countingObserver struct {
	mu        sync.Mutex
	successes int
	failures  int
}

func (o *countingObserver) ObserveQuery(success bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if success {
		o.successes++
	} else {
		o.failures++
	}
}

func readyEngine(t *testing.T, cfg config.EngineConfig) *Engine {
	t.Helper()

	e := New(cfg, nil, zerolog.Nop())
	e.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Wait(ctx))
	t.Cleanup(func() { _ = e.Close() })

	return e
}

func TestEngine_NotInitialized(t *testing.T) {
	e := New(config.EngineConfig{}, nil, zerolog.Nop())

	assert.Equal(t, StatusUninitialized, e.Status())
	_, err := e.ExecuteQuery(context.Background(), "SELECT * FROM movies")
	require.ErrorIs(t, err, ErrNotInitialized)
	assert.EqualError(t, err, "Database not initialized")
	assert.Empty(t, e.History())
}

func TestEngine_StartIsIdempotent(t *testing.T) {
	e := readyEngine(t, config.EngineConfig{})

	e.Start(context.Background())
	assert.Equal(t, StatusReady, e.Status())
	assert.True(t, e.IsReady())
}

func TestEngine_ExecuteQuery(t *testing.T) {
	e := readyEngine(t, config.EngineConfig{})

	result, err := e.ExecuteQuery(context.Background(), "SELECT title, year FROM movies WHERE director_id = 3 ORDER BY year")
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "year"}, result.Columns)
	require.Equal(t, 3, result.RowCount)
	assert.Equal(t, "Memories of Murder", result.Values[0][0])
	assert.EqualValues(t, 2003, result.Values[0][1])
}

func TestEngine_HistoryRecordsEveryAttemptNewestFirst(t *testing.T) {
	e := readyEngine(t, config.EngineConfig{})
	ctx := context.Background()

	_, err := e.ExecuteQuery(ctx, "SELECT COUNT(*) FROM movies")
	require.NoError(t, err)

	_, err = e.ExecuteQuery(ctx, "SELECT * FROM no_such_table")
	require.Error(t, err)

	history := e.History()
	require.Len(t, history, 2)

	failed := history[0]
	assert.Equal(t, "SELECT * FROM no_such_table", failed.Query)
	assert.False(t, failed.Success)
	assert.Contains(t, failed.Error, "no such table")
	assert.Nil(t, failed.RowCount)
	require.NotNil(t, failed.ExecutionTime)

	succeeded := history[1]
	assert.True(t, succeeded.Success)
	assert.Empty(t, succeeded.Error)
	require.NotNil(t, succeeded.RowCount)
	assert.Equal(t, 1, *succeeded.RowCount)

	assert.NotEqual(t, failed.ID, succeeded.ID)
	assert.False(t, failed.Timestamp.Before(succeeded.Timestamp))
}

func TestEngine_EmptyQueryIsRecordedAsFailure(t *testing.T) {
	e := readyEngine(t, config.EngineConfig{})

	_, err := e.ExecuteQuery(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyQuery)

	history := e.History()
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
}

func TestEngine_ClearHistory(t *testing.T) {
	e := readyEngine(t, config.EngineConfig{})

	_, _ = e.ExecuteQuery(context.Background(), "SELECT 1")
	require.Len(t, e.History(), 1)

	e.ClearHistory()
	assert.Empty(t, e.History())
}

func TestEngine_HistoryIsACopy(t *testing.T) {
	e := readyEngine(t, config.EngineConfig{})

	_, _ = e.ExecuteQuery(context.Background(), "SELECT 1")
	history := e.History()
	history[0].Query = "changed"

	assert.Equal(t, "SELECT 1", e.History()[0].Query)
}

func TestEngine_Tables(t *testing.T) {
	e := readyEngine(t, config.EngineConfig{})

	tables, err := e.Tables(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(tables))
	for _, table := range tables {
		names = append(names, table.Name)
	}
	assert.Equal(t, []string{"actors", "directors", "movie_actors", "movies"}, names)
	assert.Equal(t, []string{"id", "name", "birth_year"}, tables[0].Columns)
}

func TestEngine_CustomSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.sql")
	require.NoError(t, os.WriteFile(path, []byte(`
		CREATE TABLE cases (id INTEGER PRIMARY KEY, suspect TEXT);
		INSERT INTO cases (suspect) VALUES ('butler'), ('gardener');
	`), 0o600))

	e := readyEngine(t, config.EngineConfig{SeedPath: path})

	result, err := e.ExecuteQuery(context.Background(), "SELECT suspect FROM cases ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{"butler"}, {"gardener"}}, result.Values)
}

func TestEngine_BadSeedEndsInError(t *testing.T) {
	e := New(config.EngineConfig{SeedPath: filepath.Join(t.TempDir(), "missing.sql")}, nil, zerolog.Nop())
	e.Start(context.Background())

	err := e.Wait(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusError, e.Status())

	_, err = e.ExecuteQuery(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestEngine_ConcurrentQueriesAreSerialized(t *testing.T) {
	observer := &countingObserver{}
	e := New(config.EngineConfig{}, observer, zerolog.Nop())
	e.Start(context.Background())
	require.NoError(t, e.Wait(context.Background()))
	t.Cleanup(func() { _ = e.Close() })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.ExecuteQuery(context.Background(), "SELECT COUNT(*) FROM movie_actors")
		}()
	}
	wg.Wait()

	assert.Len(t, e.History(), 20)
	observer.mu.Lock()
	assert.Equal(t, 20, observer.successes)
	observer.mu.Unlock()
}

func TestEngine_CloseStopsQueries(t *testing.T) {
	e := readyEngine(t, config.EngineConfig{})
	require.NoError(t, e.Close())

	_, err := e.ExecuteQuery(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestEngine_CloseBeforeInitializationFinishes(t *testing.T) {
	e := New(config.EngineConfig{}, nil, zerolog.Nop())
	require.NoError(t, e.Close())

	e.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.ErrorIs(t, e.Wait(ctx), ErrAlreadyClosed)

	assert.False(t, e.IsReady())
	assert.Equal(t, StatusUninitialized, e.Status())

	_, err := e.ExecuteQuery(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotInitialized)
}
