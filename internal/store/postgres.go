package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresBackend keeps the durable tier in a back-office Postgres so a shop
// that already runs one gets off-device durability with the same Store API.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend connects to databaseURL and ensures the kv table exists.
func NewPostgresBackend(databaseURL string) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pos_kv (
			key   TEXT PRIMARY KEY,
			value JSONB NOT NULL
		)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create pos_kv: %w", err)
	}
	return &PostgresBackend{db: db}, nil
}

func (p *PostgresBackend) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := p.db.QueryRow(`SELECT value FROM pos_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (p *PostgresBackend) Put(key string, value []byte) error {
	_, err := p.db.Exec(`
		INSERT INTO pos_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}

func (p *PostgresBackend) Close() error {
	return p.db.Close()
}
