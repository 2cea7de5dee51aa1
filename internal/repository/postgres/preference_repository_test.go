package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PreferenceRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPreferenceRepository(Wrap(sqlx.NewDb(db, "postgres"))), mock
}

func TestPreferenceRepository_Load(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM session_preferences")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow("apodata_date_range", "last_month").
			AddRow("apodata_display_label", "Mois dernier"))

	got, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"apodata_date_range":    "last_month",
		"apodata_display_label": "Mois dernier",
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepository_Save(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session_preferences WHERE session_id = $1 AND key IN ($2, $3)")).
		WithArgs("s1", "apodata_start_date", "apodata_end_date").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO session_preferences")).
		WithArgs("s1", "apodata_date_range", "today").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO session_preferences")).
		WithArgs("s1", "apodata_display_label", "Aujourd'hui").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Save(context.Background(), "s1",
		map[string]string{"apodata_display_label": "Aujourd'hui", "apodata_date_range": "today"},
		[]string{"apodata_start_date", "apodata_end_date"},
	)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepository_SaveRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO session_preferences")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), "s1", map[string]string{"apodata_date_range": "today"}, nil)
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS session_preferences")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
