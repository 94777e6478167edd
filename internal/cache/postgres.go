package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	_ "github.com/lib/pq"
)

// Postgres is a Store backed by the shader_cache table.
type Postgres struct {
	db  *sql.DB
	log logr.Logger
}

var _ Store = (*Postgres)(nil)

// DSNFromEnv builds a connection string from the standard PG* variables.
func DSNFromEnv() string {
	host := getEnv("PGHOST", "127.0.0.1")
	port := getEnv("PGPORT", "5432")
	user := getEnv("PGUSER", "shadergraph")
	dbname := getEnv("PGDATABASE", "shadergraph")
	password := os.Getenv("PGPASSWORD")

	if password != "" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable",
		host, port, user, dbname)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// OpenPostgres connects to dsn and creates the cache table if needed. An
// empty dsn uses DSNFromEnv.
func OpenPostgres(ctx context.Context, dsn string, log logr.Logger) (*Postgres, error) {
	if dsn == "" {
		dsn = DSNFromEnv()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	p := &Postgres{db: db, log: log}
	if err := p.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create shader_cache table: %w", err)
	}
	log.V(1).Info("opened shader cache")
	return p, nil
}

func (p *Postgres) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS shader_cache (
			key         TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			target      TEXT NOT NULL,
			stage       TEXT NOT NULL,
			entry_point TEXT NOT NULL,
			source      TEXT NOT NULL,
			created     TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_shader_cache_name ON shader_cache(name);
	`
	_, err := p.db.ExecContext(ctx, query)
	return err
}

// Get implements Store.
func (p *Postgres) Get(ctx context.Context, key string) (Entry, bool, error) {
	query := `
		SELECT key, name, target, stage, entry_point, source, created
		FROM shader_cache
		WHERE key = $1
	`
	var e Entry
	err := p.db.QueryRowContext(ctx, query, key).
		Scan(&e.Key, &e.Name, &e.Target, &e.Stage, &e.EntryPoint, &e.Source, &e.Created)
	if errors.Is(err, sql.ErrNoRows) {
		p.log.V(2).Info("cache miss", "key", key)
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	p.log.V(2).Info("cache hit", "key", key)
	return e, true, nil
}

// Put implements Store.
func (p *Postgres) Put(ctx context.Context, e Entry) error {
	if e.Key == "" {
		return errors.New("cache: empty key")
	}
	if e.Created.IsZero() {
		e.Created = time.Now().UTC()
	}
	query := `
		INSERT INTO shader_cache (key, name, target, stage, entry_point, source, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			target = EXCLUDED.target,
			stage = EXCLUDED.stage,
			entry_point = EXCLUDED.entry_point,
			source = EXCLUDED.source,
			created = EXCLUDED.created
	`
	_, err := p.db.ExecContext(ctx, query, e.Key, e.Name, e.Target, e.Stage, e.EntryPoint, e.Source, e.Created)
	return err
}

// Close closes the database connection.
func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
