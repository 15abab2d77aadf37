package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nisimpson/dynaroute"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT  NOT NULL,
	key        TEXT  NOT NULL,
	data       JSONB NOT NULL,
	PRIMARY KEY (collection, key)
)`

// Postgres stores records as JSONB documents in a shared table.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ dynaroute.Store = (*Postgres)(nil)

// NewPostgres connects to databaseURL, verifies the connection and creates
// the documents table if it does not exist.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// EnsureSchema creates the documents table.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) Get(ctx context.Context, collection, key string) (dynaroute.Record, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}

	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND key = $2`,
		collection, key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(collection, key)
	}
	if err != nil {
		return nil, storeErr(dynaroute.StoreGet, collection, key, err)
	}

	rec, err := decode(raw)
	if err != nil {
		return nil, storeErr(dynaroute.StoreGet, collection, key, err)
	}
	return rec, nil
}

func (p *Postgres) Put(ctx context.Context, collection string, rec dynaroute.Record) error {
	b, err := encode(collection, rec)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO documents (collection, key, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, key) DO UPDATE SET data = EXCLUDED.data
	`, collection, rec.ID(), string(b))
	if err != nil {
		return storeErr(dynaroute.StorePut, collection, rec.ID(), err)
	}
	return nil
}

func (p *Postgres) Scan(ctx context.Context, collection string) ([]dynaroute.Record, error) {
	rows, err := p.pool.Query(ctx, `SELECT data FROM documents WHERE collection = $1`, collection)
	if err != nil {
		return nil, storeErr(dynaroute.StoreScan, collection, "", err)
	}
	defer rows.Close()

	records := make([]dynaroute.Record, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, storeErr(dynaroute.StoreScan, collection, "", err)
		}
		rec, err := decode(raw)
		if err != nil {
			return nil, storeErr(dynaroute.StoreScan, collection, "", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(dynaroute.StoreScan, collection, "", err)
	}
	return records, nil
}

func (p *Postgres) Delete(ctx context.Context, collection, key string) error {
	if err := requireKey(key); err != nil {
		return err
	}
	_, err := p.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND key = $2`, collection, key)
	if err != nil {
		return storeErr(dynaroute.StoreDelete, collection, key, err)
	}
	return nil
}
