package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	sqlite3migrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
)

//go:embed migrations/*.sql
var migrations embed.FS

const kvTable = "kv"

// Database is a small key-value store on top of sqlite. Each key holds one opaque value
// that is overwritten as a whole on every Put.
type Database struct {
	conn    *sql.DB
	builder sq.StatementBuilderType
}

// NewDatabase connects to the sqlite database at the given filename and migrates the schema
// if needed.
func NewDatabase(ctx context.Context, filename string) (*Database, error) {
	if err := initialize(filename); err != nil {
		return nil, err
	}

	conn := sqldblogger.OpenDriver(
		filename,
		&sqlite3.SQLiteDriver{},
		zerologadapter.New(log.Logger),
		sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
		sqldblogger.WithQueryerLevel(sqldblogger.LevelDebug),
		sqldblogger.WithExecerLevel(sqldblogger.LevelDebug),
		sqldblogger.WithPreparerLevel(sqldblogger.LevelDebug),
	)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()

		return nil, fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	return &Database{
		conn:    conn,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// initialize runs the embedded migrations on a dedicated connection; they are idempotent.
func initialize(filename string) error {
	conn, err := sql.Open("sqlite3", filename)
	if err != nil {
		return fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	driver, err := sqlite3migrate.WithInstance(conn, &sqlite3migrate.Config{})
	if err != nil {
		conn.Close()

		return fmt.Errorf("error running migrations: %w", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		conn.Close()

		return fmt.Errorf("error reading migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		conn.Close()

		return fmt.Errorf("error running migrations: %w", err)
	}

	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.conn.Close()
}

// Get returns the value stored under key. The bool is false when the key has never been written.
func (d *Database) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := d.builder.Select("value").From(kvTable).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("error building query for key %s: %w", key, err)
	}

	var value []byte

	err = d.conn.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("error reading key %s: %w", key, err)
	}

	return value, true, nil
}

// Put replaces the value stored under key.
func (d *Database) Put(ctx context.Context, key string, value []byte) error {
	query, args, err := d.builder.Insert(kvTable).
		Columns("key", "value", "updated_datetime").
		Values(key, value, time.Now()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_datetime = excluded.updated_datetime").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building upsert for key %s: %w", key, err)
	}

	if _, err := d.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error writing key %s: %w", key, err)
	}

	return nil
}
