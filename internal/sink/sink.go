// Package sink implements the Persistence Sink: a channel consumer
// that writes runtime records to a relational store, grounded in the
// teacher's internal/storage.NewCockroachStoresFromDSN (database/sql +
// github.com/lib/pq, pooled connections, ping-on-open). Schema
// migrations are applied separately via ApplyMigrations
// (golang-migrate/migrate/v4, the vanducng-goclaw example's choice for
// the same concern). Writes that fail are retained in a bounded
// in-memory ring buffer and retried on the next flush tick rather than
// blocking the producer.
package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// Sink consumes Records off an internal channel and persists them,
// falling back to an in-memory buffer on write failure.
type Sink struct {
	db       *sql.DB
	logger   *slog.Logger
	input    chan Record
	fallback *fallback
	interval time.Duration
}

// New opens the database connection, pings it, and returns a Sink
// ready for Run. It does not apply migrations; call ApplyMigrations
// separately before Run if the schema may not exist yet.
func New(cfg Config, logger *slog.Logger) (*Sink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &Sink{
		db:       db,
		logger:   logger.With("component", "sink"),
		input:    make(chan Record, 256),
		fallback: newFallback(),
		interval: interval,
	}, nil
}

// Write enqueues a record for asynchronous persistence. Never blocks
// the caller beyond the channel's buffer: a full channel drops the
// oldest queued record rather than stalling the producer.
func (s *Sink) Write(r Record) {
	select {
	case s.input <- r:
	default:
		select {
		case <-s.input:
		default:
		}
		select {
		case s.input <- r:
		default:
		}
	}
}

// Run drains the input channel and the fallback buffer until ctx is
// cancelled. It is meant to run on its own goroutine.
func (s *Sink) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case r := <-s.input:
			s.persist(ctx, r)
		case <-ticker.C:
			s.retryFallback(ctx)
		}
	}
}

func (s *Sink) persist(ctx context.Context, r Record) {
	if err := r.insert(ctx, s.db); err != nil {
		s.logger.Warn("sink write failed, buffering for retry", "error", err)
		s.fallback.push(r)
	}
}

func (s *Sink) retryFallback(ctx context.Context) {
	pending := s.fallback.drain()
	for _, r := range pending {
		s.persist(ctx, r)
	}
}

// PendingFallback reports how many records are currently buffered
// awaiting a successful retry, for health checks/metrics.
func (s *Sink) PendingFallback() int {
	return s.fallback.len()
}

// Close releases the underlying database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}
