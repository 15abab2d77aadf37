package docstore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nisimpson/dynaroute"
)

// SQLite stores all collections in a single SQLite database.
//
// Tables:
//
//	documents(collection, key, data)  PRIMARY KEY (collection, key)
type SQLite struct {
	mu sync.RWMutex
	db *sql.DB
}

var _ dynaroute.Store = (*SQLite)(nil)

// NewSQLite opens or creates the database at dbPath. The path ":memory:"
// opens a private in-memory database.
func NewSQLite(dbPath string) (*SQLite, error) {
	inMemory := dbPath == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if inMemory {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		key TEXT NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (collection, key)
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, collection, key string) (dynaroute.Record, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND key = ?",
		collection, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(collection, key)
	}
	if err != nil {
		return nil, storeErr(dynaroute.StoreGet, collection, key, err)
	}

	rec, err := decode([]byte(raw))
	if err != nil {
		return nil, storeErr(dynaroute.StoreGet, collection, key, err)
	}
	return rec, nil
}

func (s *SQLite) Put(ctx context.Context, collection string, rec dynaroute.Record) error {
	b, err := encode(collection, rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, key, data) VALUES (?, ?, ?)
		 ON CONFLICT(collection, key) DO UPDATE SET data = excluded.data`,
		collection, rec.ID(), string(b),
	)
	if err != nil {
		return storeErr(dynaroute.StorePut, collection, rec.ID(), err)
	}
	return nil
}

func (s *SQLite) Scan(ctx context.Context, collection string) ([]dynaroute.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT data FROM documents WHERE collection = ?", collection)
	if err != nil {
		return nil, storeErr(dynaroute.StoreScan, collection, "", err)
	}
	defer rows.Close()

	records := make([]dynaroute.Record, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, storeErr(dynaroute.StoreScan, collection, "", err)
		}
		rec, err := decode([]byte(raw))
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

func (s *SQLite) Delete(ctx context.Context, collection, key string) error {
	if err := requireKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND key = ?",
		collection, key,
	)
	if err != nil {
		return storeErr(dynaroute.StoreDelete, collection, key, err)
	}
	return nil
}
