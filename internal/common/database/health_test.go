package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"correspondence-workers/internal/common/config"
	"correspondence-workers/internal/common/logger"
)

type flakyDep struct {
	failures int
	calls    int
}

func (f *flakyDep) Name() string { return "flaky" }

func (f *flakyDep) Ping(context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestConnectWithRetry(t *testing.T) {
	dep := &flakyDep{failures: 2}

	err := ConnectWithRetry(context.Background(), dep, 5, time.Millisecond, logger.NewTestLogger(t))

	require.NoError(t, err)
	assert.Equal(t, 3, dep.calls)
}

func TestConnectWithRetry_GivesUp(t *testing.T) {
	dep := &flakyDep{failures: 10}

	err := ConnectWithRetry(context.Background(), dep, 3, time.Millisecond, logger.NewNoOpLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, dep.calls)
}

func TestConnectWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ConnectWithRetry(ctx, &flakyDep{failures: 10}, 3, time.Hour, logger.NewNoOpLogger())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckAll(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer rc.Close()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("database is starting up"))

	failures := CheckAll(context.Background(), rc, NewPostgresFromDB(db), nil)

	require.Len(t, failures, 1)
	assert.Contains(t, failures["postgres"].Error(), "starting up")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}
