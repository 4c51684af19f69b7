package templates

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/correspondence"
)

func TestStore_FallsBackToBuiltin(t *testing.T) {
	db, mock := setupMockDB(t)
	_, rdb := setupRedis(t)
	store := NewStore(db, rdb, testPrefix, time.Minute, logger.NewTestLogger(t))

	mock.ExpectQuery("FROM correspondence_templates").
		WithArgs(correspondence.TemplateGroupReservation).
		WillReturnRows(sqlmock.NewRows(templateColumns))

	tmpl, err := store.Get(context.Background(), correspondence.TemplateGroupReservation)
	require.NoError(t, err)
	named, _ := correspondence.NamedTemplate(correspondence.TemplateGroupReservation)
	assert.Equal(t, named.Body, tmpl.Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveEvictsCache(t *testing.T) {
	db, mock := setupMockDB(t)
	mr, rdb := setupRedis(t)
	store := NewStore(db, rdb, testPrefix, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()
	tmpl := createTestTemplate("summer-terrace")

	require.NoError(t, mr.Set(testPrefix+tmpl.ID, `{"id":"summer-terrace","body":"stale"}`))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO correspondence_templates")).
		WithArgs(tmpl.ID, tmpl.Name, tmpl.Subject, tmpl.Body).
		WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(5, time.Now()))

	require.NoError(t, store.Save(ctx, &tmpl))
	assert.Equal(t, 5, tmpl.Version)
	assert.False(t, mr.Exists(testPrefix+tmpl.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
