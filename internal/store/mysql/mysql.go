// Package mysql implements the store.Store interface backed by MySQL.
package mysql

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/alfredjeanlab/vidstore/internal/model"
	"github.com/alfredjeanlab/vidstore/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Options holds the connection parameters for a MetadataStore. The zero
// value is usable; withDefaults fills in every unset field.
type Options struct {
	DBName   string // default "video_database"
	Host     string // default "localhost"
	User     string // default "root"
	Password string // default empty
	Port     int    // default 3306

	// Connection retry behavior on initial acquisition.
	ConnectAttempts int           // default 3
	RetryDelay      time.Duration // default 1s

	// Per-connection timeouts, independent bounds.
	ConnectTimeout time.Duration // default 10s
	ReadTimeout    time.Duration // default 30s
	WriteTimeout   time.Duration // default 30s
}

func (o Options) withDefaults() Options {
	if o.DBName == "" {
		o.DBName = "video_database"
	}
	if o.Host == "" {
		o.Host = "localhost"
	}
	if o.User == "" {
		o.User = "root"
	}
	if o.Port == 0 {
		o.Port = 3306
	}
	if o.ConnectAttempts <= 0 {
		o.ConnectAttempts = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 30 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 30 * time.Second
	}
	return o
}

func (o Options) addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// dsn builds the driver DSN. When withDB is false the connection is not
// scoped to a database, which is how the bootstrap step creates it.
func (o Options) dsn(withDB bool) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = o.addr()
	cfg.User = o.User
	cfg.Passwd = o.Password
	if withDB {
		cfg.DBName = o.DBName
	}
	cfg.Collation = "utf8mb4_unicode_ci"
	cfg.ParseTime = true
	cfg.MultiStatements = true
	cfg.Timeout = o.ConnectTimeout
	cfg.ReadTimeout = o.ReadTimeout
	cfg.WriteTimeout = o.WriteTimeout
	return cfg.FormatDSN()
}

// dbNamePattern restricts database names to identifier characters so the
// bootstrap CREATE DATABASE statement cannot be abused.
var dbNamePattern = regexp.MustCompile(`^[0-9a-zA-Z$_]+$`)

// MetadataStore implements store.Store backed by a MySQL database.
type MetadataStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Compile-time check that MetadataStore implements store.Store.
var _ store.Store = (*MetadataStore)(nil)

// New connects to MySQL, creates the database if it does not exist, applies
// any pending schema migrations, and returns a ready store. Bootstrap
// failures are returned, not swallowed: a store that cannot reach a usable
// schema is never handed to the caller.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*MetadataStore, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	if !dbNamePattern.MatchString(opts.DBName) {
		return nil, fmt.Errorf("invalid database name %q", opts.DBName)
	}

	if err := createDatabase(ctx, opts, logger); err != nil {
		return nil, fmt.Errorf("create database %s: %w", opts.DBName, err)
	}

	db, err := connect(ctx, opts, true, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, opts.DBName); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &MetadataStore{db: db, logger: logger}, nil
}

// connect opens a handle and verifies it with a bounded number of ping
// attempts. The inter-attempt wait honors context cancellation. On final
// failure the error carries host and database context.
func connect(ctx context.Context, opts Options, withDB bool, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("mysql", opts.dsn(withDB))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	var lastErr error
	for attempt := 1; attempt <= opts.ConnectAttempts; attempt++ {
		lastErr = db.PingContext(ctx)
		if lastErr == nil {
			return db, nil
		}
		if attempt == opts.ConnectAttempts {
			break
		}
		logger.Warn("database connection failed, retrying",
			"attempt", attempt,
			"delay", opts.RetryDelay,
			"err", lastErr,
		)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("connect to %s: %w", opts.addr(), ctx.Err())
		case <-time.After(opts.RetryDelay):
		}
	}

	db.Close()
	dbName := "none"
	if withDB {
		dbName = opts.DBName
	}
	logger.Error("failed to connect to database",
		"host", opts.addr(),
		"database", dbName,
		"attempts", opts.ConnectAttempts,
		"err", lastErr,
	)
	return nil, fmt.Errorf("connect to %s (database %s) after %d attempts: %w",
		opts.addr(), dbName, opts.ConnectAttempts, lastErr)
}

// createDatabase connects without a database scope and issues the idempotent
// CREATE DATABASE. The USE in the same round trip is what requires
// multi-statement support on the connection.
func createDatabase(ctx context.Context, opts Options, logger *slog.Logger) error {
	db, err := connect(ctx, opts, false, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createDatabaseStmt(opts.DBName)); err != nil {
		return err
	}
	return nil
}

// createDatabaseStmt builds the idempotent bootstrap statement. The name has
// already been validated against dbNamePattern.
func createDatabaseStmt(dbName string) string {
	return fmt.Sprintf(
		"CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci; USE `%s`",
		dbName, dbName,
	)
}

func runMigrations(db *sql.DB, dbName string) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratemysql.WithInstance(db, &migratemysql.Config{DatabaseName: dbName})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "mysql", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *MetadataStore) Close() error {
	return s.db.Close()
}

func (s *MetadataStore) InsertVideo(ctx context.Context, v *model.Video) (int64, error) {
	return queryInsertVideo(ctx, s.db, v)
}

func (s *MetadataStore) UpdateVideoMetadata(ctx context.Context, videoID string, metadata json.RawMessage) (int64, error) {
	return queryUpdateVideoMetadata(ctx, s.db, videoID, metadata)
}

func (s *MetadataStore) GetVideo(ctx context.Context, videoID string) (*model.Video, error) {
	return queryGetVideo(ctx, s.db, videoID)
}

func (s *MetadataStore) ListVideos(ctx context.Context) ([]*model.Video, error) {
	return queryListVideos(ctx, s.db, s.logger)
}

func (s *MetadataStore) CountVideos(ctx context.Context) (int, error) {
	return queryCountVideos(ctx, s.db)
}
