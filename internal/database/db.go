package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DB is the new-year cache backed by SQLite.
type DB struct {
	*sql.DB
	path   string
	logger *slog.Logger
}

// Config holds database configuration options.
type Config struct {
	Path            string        // SQLite file, or ":memory:"
	MaxOpenConns    int           // SQLite serializes writers; keep at 1
	MaxIdleConns    int
	ConnMaxLifetime time.Duration // 0 keeps connections forever
	BusyTimeout     time.Duration // how long a locked database is retried
}

// DefaultConfig returns the settings used by the server and the CLI.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// dsn appends the driver pragmas to path. In-memory databases skip WAL,
// which SQLite does not support for them.
func (c Config) dsn() string {
	params := []string{
		"_foreign_keys=ON",
		fmt.Sprintf("_busy_timeout=%d", c.BusyTimeout.Milliseconds()),
	}
	if !isMemory(c.Path) {
		params = append(params, "_journal_mode=WAL", "_synchronous=NORMAL")
	}

	sep := "?"
	if strings.Contains(c.Path, "?") {
		sep = "&"
	}
	return c.Path + sep + strings.Join(params, "&")
}

// Open connects to the cache at cfg.Path, creating its directory if
// needed. Call Migrate before use and Close when done.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		return nil, errors.New("database path is empty")
	}

	if !isMemory(cfg.Path) {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Debug("new-year cache opened",
		slog.String("path", cfg.Path),
		slog.Bool("memory", isMemory(cfg.Path)),
	)

	return &DB{DB: sqlDB, path: cfg.Path, logger: logger}, nil
}

// Path returns the path the cache was opened with.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.logger.Debug("new-year cache closed", slog.String("path", db.path))
	return db.DB.Close()
}

// Health reports whether the cache answers queries and has been migrated.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version < latestVersion() {
		return fmt.Errorf("schema at version %d, want %d", version, latestVersion())
	}
	return nil
}

// =============================================================================
// Transactions
// =============================================================================

// Tx is a transaction over the cache.
type Tx struct {
	*sql.Tx
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx}, nil
}

// WithTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise, including when fn panics.
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
