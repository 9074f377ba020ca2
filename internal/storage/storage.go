package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	writeQueueSize  = 1000
	shutdownTimeout = 2 * time.Second
)

// writeOp is one queued transaction. An op with a done channel and no fn is a
// flush marker.
type writeOp struct {
	fn   func(*sql.Tx) error
	done chan struct{}
}

// Store archives finished and running games in SQLite. Writes are queued and
// applied by a single writer goroutine so game handling never waits on disk.
type Store struct {
	db           *sql.DB
	writeChan    chan writeOp
	healthStatus atomic.Bool
	logger       *zap.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

func NewStore(dataSourceName string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps reads consistent with the writer and keeps
	// the foreign key pragma in effect
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		db:        db,
		writeChan: make(chan writeOp, writeQueueSize),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// InitDB creates the schema if it does not exist yet.
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return tx.Commit()
}

// IsHealthy is false once a write has failed. A degraded store drops writes.
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			for {
				select {
				case op := <-s.writeChan:
					s.apply(op)
				default:
					return
				}
			}
		case op := <-s.writeChan:
			s.apply(op)
		}
	}
}

func (s *Store) apply(op writeOp) {
	if op.done != nil {
		close(op.done)
		return
	}
	if !s.healthStatus.Load() {
		return
	}
	s.executeWrite(op.fn)
}

func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		s.degrade("failed to begin transaction", err)
		return
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		s.degrade("write operation failed", err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.degrade("failed to commit", err)
	}
}

func (s *Store) degrade(msg string, err error) {
	s.logger.Error("storage degraded: "+msg, zap.Error(err))
	s.healthStatus.Store(false)
}

func (s *Store) enqueue(kind string, fn func(*sql.Tx) error) {
	if !s.healthStatus.Load() {
		return
	}
	select {
	case s.writeChan <- writeOp{fn: fn}:
	default:
		s.logger.Warn("storage write queue full, dropping write", zap.String("kind", kind))
	}
}

// Flush blocks until every write queued before the call has been applied.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case s.writeChan <- writeOp{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the write queue and closes the database.
func (s *Store) Close() error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		s.logger.Warn("storage writer shutdown timeout, some writes may be lost")
	}

	return s.db.Close()
}
