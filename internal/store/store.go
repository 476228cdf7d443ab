package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/abhisek/phrasely/internal/logging"
	"github.com/abhisek/phrasely/internal/reviewlog"
	"github.com/abhisek/phrasely/internal/spacedrep"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested group or item does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when a group name or a front within a group is
// already taken.
var ErrDuplicate = errors.New("store: already exists")

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store holds the database handle and provides access to repositories.
type Store struct {
	db     *sql.DB
	seq    *sequenceCounter
	logger *logging.Logger
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them in force
	// and serializes writers.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	migrate, err := schema.NewMigrate(drv)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create migrate: %w", err)
	}
	if err := migrate.Create(context.Background(), Tables...); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq, logger: logging.Nop()}, nil
}

// SetLogger sets the logger used for store events.
func (s *Store) SetLogger(l *logging.Logger) {
	if l == nil {
		l = logging.Nop()
	}
	s.logger = l.With("component", "store")
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Groups returns a GroupRepo backed by this store.
func (s *Store) Groups() *GroupRepo {
	return &GroupRepo{db: s.db}
}

// Items returns an ItemRepo backed by this store.
func (s *Store) Items() *ItemRepo {
	return &ItemRepo{q: s.db}
}

// Log returns a LogRepo backed by this store.
func (s *Store) Log() *LogRepo {
	return &LogRepo{q: s.db, seq: s.seq, logger: s.logger}
}

// RecordReview saves the updated item and appends its log entry in one
// transaction. The returned entry carries its assigned sequence number.
func (s *Store) RecordReview(ctx context.Context, item spacedrep.Item, e reviewlog.Entry) (reviewlog.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return e, fmt.Errorf("begin review tx: %w", err)
	}
	defer tx.Rollback()

	if err := (&ItemRepo{q: tx}).Save(ctx, item); err != nil {
		return e, err
	}
	e, err = (&LogRepo{q: tx, seq: s.seq, logger: s.logger}).Append(ctx, e)
	if err != nil {
		return e, err
	}
	if err := tx.Commit(); err != nil {
		return e, fmt.Errorf("commit review: %w", err)
	}
	return e, nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PHRASELY_DB environment variable
// 2. $XDG_DATA_HOME/phrasely/phrasely.db
// 3. ~/.local/share/phrasely/phrasely.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PHRASELY_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "phrasely", "phrasely.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
