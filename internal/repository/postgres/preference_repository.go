package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
)

const preferencesSchema = `
	CREATE TABLE IF NOT EXISTS session_preferences (
		session_id TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (session_id, key)
	)
`

type preferenceRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// PreferenceRepository stores session period keys in PostgreSQL. It
// satisfies session.Storage.
type PreferenceRepository struct {
	db *DB
}

func NewPreferenceRepository(db *DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// EnsureSchema creates the preferences table if it does not exist.
func (r *PreferenceRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, preferencesSchema); err != nil {
		return fmt.Errorf("failed to create session_preferences: %w", err)
	}
	return nil
}

func (r *PreferenceRepository) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	query := `
		SELECT key, value
		FROM session_preferences
		WHERE session_id = $1
	`

	var rows []preferenceRow
	if err := r.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("error loading session preferences: %w", err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

func (r *PreferenceRepository) Save(ctx context.Context, sessionID string, set map[string]string, clear []string) error {
	upsert := `
		INSERT INTO session_preferences (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if len(clear) > 0 {
			query, args, err := sqlx.In(`DELETE FROM session_preferences WHERE session_id = ? AND key IN (?)`, sessionID, clear)
			if err != nil {
				return fmt.Errorf("failed to build delete: %w", err)
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
				return fmt.Errorf("failed to clear session preferences: %w", err)
			}
		}

		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, upsert, sessionID, k, set[k]); err != nil {
				return fmt.Errorf("failed to upsert preference %s: %w", k, err)
			}
		}
		return nil
	})
}
