package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidya-edu/academy-cms-gateway/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck
	return sqlx.NewDb(db, "postgres"), mock
}

func TestRecordInsertsEntry(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)

	resourceID := "o1"
	entry := models.AuditLog{
		ID:         "11111111-1111-1111-1111-111111111111",
		Actor:      "admin",
		Action:     models.AuditActionCMSUpdate,
		Resource:   models.SectionOffers,
		ResourceID: &resourceID,
		IPAddress:  "127.0.0.1",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, entry.Actor, entry.Action, entry.Resource, entry.ResourceID,
			entry.Detail, entry.IPAddress, entry.UserAgent, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Record(context.Background(), entry)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAppliesFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)

	actor := "admin"
	rows := sqlmock.NewRows([]string{"id", "actor", "action", "resource", "resource_id", "detail", "ip_address", "user_agent", "created_at"}).
		AddRow("a1", "admin", models.AuditActionCMSCreate, models.SectionOffers, nil, nil, "", "", time.Now().UTC())

	mock.ExpectQuery(`SELECT \* FROM audit_logs WHERE actor = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs(actor, 50).
		WillReturnRows(rows)

	entries, err := repo.List(context.Background(), models.AuditFilter{Actor: &actor})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionCMSCreate, entries[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCapsLimit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)

	rows := sqlmock.NewRows([]string{"id", "actor", "action", "resource", "resource_id", "detail", "ip_address", "user_agent", "created_at"})
	mock.ExpectQuery(`SELECT \* FROM audit_logs ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(rows)

	_, err := repo.List(context.Background(), models.AuditFilter{Limit: 9999})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
