package localstate

import (
	"context"
	"database/sql"
	"errors"
)

// PGState stores values in the document_state table.
type PGState struct {
	DB *sql.DB
}

func (s *PGState) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `
SELECT value
FROM document_state
WHERE key = $1
LIMIT 1`
	var value []byte
	err := s.DB.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *PGState) Put(ctx context.Context, key string, value []byte) error {
	const query = `
INSERT INTO document_state (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET
  value = EXCLUDED.value,
  updated_at = now()`
	_, err := s.DB.ExecContext(ctx, query, key, value)
	return err
}

func (s *PGState) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM document_state WHERE key = $1`
	_, err := s.DB.ExecContext(ctx, query, key)
	return err
}
