package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mutestr/mutestr/internal/dbx"
)

// SQLiteStore implements Store over the appdata table using a dbx.DBTX
// (either *sql.DB or *sql.Tx).
type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (r *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM appdata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appdata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appdata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set appdata[%s]: %w", key, err)
	}
	return nil
}

// SetMany upserts all pairs in one transaction when the store wraps a
// *sql.DB. When it already runs inside a transaction, the writes join it.
func (r *SQLiteStore) SetMany(ctx context.Context, values map[string][]byte) error {
	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return NewSQLiteStore(tx).setAll(ctx, values)
		})
	}
	return r.setAll(ctx, values)
}

func (r *SQLiteStore) setAll(ctx context.Context, values map[string][]byte) error {
	for key, value := range values {
		if err := r.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM appdata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete appdata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteStore) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM appdata`)
	if err != nil {
		return nil, fmt.Errorf("failed to list appdata: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan appdata row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appdata rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteStore) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM appdata`)
	if err != nil {
		return fmt.Errorf("failed to clear appdata: %w", err)
	}
	return nil
}
