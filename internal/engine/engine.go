// Package engine owns the embedded SQL database students practise on.
package engine

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/config"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

//go:embed seed/movies.sql
var moviesSeed string

type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusReady         Status = "ready"
	StatusError         Status = "error"
)

// QueryObserver is notified of every executed query.
type QueryObserver interface {
	ObserveQuery(success bool, d time.Duration)
}

// Engine is a single in-memory SQLite database plus the history of queries
// run against it. Queries are serialized; the history is newest first.
type Engine struct {
	cfg      config.EngineConfig
	observer QueryObserver
	logger   zerolog.Logger

	startOnce sync.Once
	done      chan struct{}

	stateMu sync.RWMutex
	status  Status
	initErr error

	// mu serializes queries on db.
	mu     sync.Mutex
	db     *sqlx.DB
	closed bool

	historyMu sync.RWMutex
	history   []models.QueryHistoryEntry
}

func New(cfg config.EngineConfig, observer QueryObserver, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		observer: observer,
		logger:   logger.With().Str("component", "engine").Logger(),
		done:     make(chan struct{}),
		status:   StatusUninitialized,
	}
}

// Start begins initialization in the background. Only the first call has
// any effect.
func (e *Engine) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		e.setStatus(StatusLoading, nil)
		go e.initialize(ctx)
	})
}

// Wait blocks until initialization finished and returns its error.
func (e *Engine) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		e.stateMu.RLock()
		defer e.stateMu.RUnlock()
		return e.initErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) Status() Status {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.status
}

func (e *Engine) IsReady() bool {
	return e.Status() == StatusReady
}

// Err is the initialization failure, if any.
func (e *Engine) Err() error {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.initErr
}

func (e *Engine) initialize(ctx context.Context) {
	defer close(e.done)

	if e.cfg.InitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.InitTimeout)
		defer cancel()
	}

	start := time.Now()
	db, err := e.open(ctx)
	if err != nil {
		e.logger.Error().Err(err).Msg("Failed to initialize engine")
		e.setStatus(StatusError, err)
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		_ = db.Close()
		e.logger.Info().Msg("Engine closed during initialization")
		e.setStatus(StatusUninitialized, ErrAlreadyClosed)
		return
	}
	e.db = db
	e.setStatus(StatusReady, nil)
	e.mu.Unlock()

	e.logger.Info().Dur("took", time.Since(start)).Msg("Engine ready")
}

func (e *Engine) open(ctx context.Context) (*sqlx.DB, error) {
	seed, err := e.seed()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open engine database: %w", err)
	}

	// The database lives as long as its only connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open engine database: %w", err)
	}

	if _, err := db.ExecContext(ctx, seed); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	return db, nil
}

func (e *Engine) seed() (string, error) {
	if e.cfg.SeedPath == "" {
		return moviesSeed, nil
	}

	data, err := os.ReadFile(e.cfg.SeedPath)
	if err != nil {
		return "", fmt.Errorf("failed to read dataset %s: %w", e.cfg.SeedPath, err)
	}
	return string(data), nil
}

func (e *Engine) setStatus(status Status, err error) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.status = status
	e.initErr = err
}

// ExecuteQuery runs sql and records the attempt in the history whether it
// succeeds or not. Calls made before the engine is ready fail with
// ErrNotInitialized and are not recorded.
func (e *Engine) ExecuteQuery(ctx context.Context, sql string) (*models.QueryResult, error) {
	if !e.IsReady() {
		return nil, ErrNotInitialized
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil, ErrNotInitialized
	}

	started := time.Now()
	result, err := e.run(ctx, sql)
	elapsed := time.Since(started)

	ms := float64(elapsed.Microseconds()) / 1000
	entry := models.QueryHistoryEntry{
		ID:            uuid.NewString(),
		Query:         sql,
		Timestamp:     started.UTC(),
		Success:       err == nil,
		ExecutionTime: &ms,
	}
	if err != nil {
		entry.Error = err.Error()
	} else {
		rowCount := result.RowCount
		entry.RowCount = &rowCount
	}
	e.record(entry)

	if e.observer != nil {
		e.observer.ObserveQuery(err == nil, elapsed)
	}

	if err != nil {
		e.logger.Debug().Err(err).Str("query", sql).Msg("Query failed")
		return nil, err
	}

	return result, nil
}

func (e *Engine) run(ctx context.Context, sql string) (*models.QueryResult, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, ErrEmptyQuery
	}

	rows, err := e.db.QueryxContext(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &models.QueryResult{
		Columns: columns,
		Values:  [][]interface{}{},
	}

	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			}
		}
		result.Values = append(result.Values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.RowCount = len(result.Values)
	return result, nil
}

func (e *Engine) record(entry models.QueryHistoryEntry) {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	e.history = append([]models.QueryHistoryEntry{entry}, e.history...)
}

// History returns a copy of the history, newest first.
func (e *Engine) History() []models.QueryHistoryEntry {
	e.historyMu.RLock()
	defer e.historyMu.RUnlock()

	out := make([]models.QueryHistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) ClearHistory() {
	e.historyMu.Lock()
	defer e.historyMu.Unlock()
	e.history = nil
}

// Tables lists user tables and their columns, sorted by table name.
func (e *Engine) Tables(ctx context.Context) ([]models.TableSchema, error) {
	if !e.IsReady() {
		return nil, ErrNotInitialized
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil, ErrNotInitialized
	}

	var names []string
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	if err := e.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]models.TableSchema, 0, len(names))
	for _, name := range names {
		var columns []string
		if err := e.db.SelectContext(ctx, &columns, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, name); err != nil {
			return nil, fmt.Errorf("failed to describe table %s: %w", name, err)
		}
		tables = append(tables, models.TableSchema{Name: name, Columns: columns})
	}

	return tables, nil
}

// Close releases the database. The engine cannot be restarted, and an
// initialization still in flight discards what it opened.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	if e.db == nil {
		return nil
	}

	err := e.db.Close()
	e.db = nil
	e.setStatus(StatusUninitialized, ErrAlreadyClosed)
	return err
}
