// Package leader elects a single active sync daemon per database with a
// PostgreSQL session advisory lock. The lock lives as long as the connection
// that took it, so a crashed leader frees it automatically.
package leader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"go.uber.org/zap"
)

// DefaultPollInterval is the wait between two lock attempts of a standby.
const DefaultPollInterval = 15 * time.Second

// DefaultCheckInterval is the wait between two health checks of a held lock.
const DefaultCheckInterval = 30 * time.Second

// ErrNotHeld is returned by Release when the lock is not held.
var ErrNotHeld = errors.New("leader: lock not held")

// ErrLost is returned by Watch when the session holding the lock is gone.
var ErrLost = errors.New("leader: lock lost")

// Lock is a named advisory lock on a dedicated connection pool.
type Lock struct {
	db       *sql.DB
	name     string
	key      int64
	interval time.Duration
	log      *zap.SugaredLogger

	checkInterval time.Duration

	conn  *sql.Conn
	try   func(ctx context.Context) (bool, error)
	check func(ctx context.Context) error
}

// Open connects to PostgreSQL with dsn and prepares the lock called name.
func Open(ctx context.Context, dsn, name string, log *zap.SugaredLogger) (*Lock, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	l := &Lock{db: db, name: name, key: Key(name), interval: DefaultPollInterval, checkInterval: DefaultCheckInterval, log: log}
	l.try = l.tryAdvisoryLock
	l.check = l.pingSession
	return l, nil
}

// Key derives the advisory lock key from a lock name.
func Key(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}

// Acquire blocks until the lock is taken or ctx is done.
func (l *Lock) Acquire(ctx context.Context) error {
	waiting := false
	for {
		ok, err := l.try(ctx)
		if err != nil {
			return fmt.Errorf("acquire %s: %w", l.name, err)
		}
		if ok {
			l.log.Infow("leader lock acquired", "lock", l.name)
			return nil
		}
		if !waiting {
			l.log.Infow("leader lock held elsewhere, standing by", "lock", l.name, "poll", l.interval.String())
			waiting = true
		}

		t := time.NewTimer(l.interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Watch checks the session holding the lock every check interval. It returns
// nil when ctx is done and an error wrapping ErrLost as soon as a check fails,
// since PostgreSQL has then released the lock to any standby.
func (l *Lock) Watch(ctx context.Context) error {
	t := time.NewTicker(l.checkInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}

		cctx, cancel := context.WithTimeout(ctx, l.checkInterval)
		err := l.check(cctx)
		cancel()
		if err != nil && ctx.Err() == nil {
			l.log.Errorw("leader lock session lost", "lock", l.name, "error", err)
			return fmt.Errorf("%w: %s: %v", ErrLost, l.name, err)
		}
	}
}

func (l *Lock) pingSession(ctx context.Context) error {
	if l.conn == nil {
		return ErrNotHeld
	}
	return l.conn.PingContext(ctx)
}

func (l *Lock) tryAdvisoryLock(ctx context.Context) (bool, error) {
	if l.conn == nil {
		conn, err := l.db.Conn(ctx)
		if err != nil {
			return false, err
		}
		l.conn = conn
	}

	var ok bool
	if err := l.conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.key).Scan(&ok); err != nil {
		_ = l.conn.Close()
		l.conn = nil
		return false, err
	}
	return ok, nil
}

// Release unlocks and closes the connection pool.
func (l *Lock) Release(ctx context.Context) error {
	defer func() { _ = l.db.Close() }()
	if l.conn == nil {
		return ErrNotHeld
	}
	defer func() { _ = l.conn.Close() }()

	var ok bool
	if err := l.conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", l.key).Scan(&ok); err != nil {
		return fmt.Errorf("release %s: %w", l.name, err)
	}
	if !ok {
		return ErrNotHeld
	}
	l.log.Infow("leader lock released", "lock", l.name)
	return nil
}
