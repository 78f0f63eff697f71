package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelease/config"
)

func TestConnect_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:    "sqlite3",
		DatabaseURL: filepath.Join(t.TempDir(), "travelease.db"),
	}

	db, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'summaries'`).Scan(&name))
	assert.Equal(t, "summaries", name)
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), &config.Config{DBDriver: "nope"})
	assert.Error(t, err)
}

func TestPing_RetriesThenGivesUp(t *testing.T) {
	defer func(a int, i time.Duration) { PingAttempts, PingInterval = a, i }(PingAttempts, PingInterval)
	PingAttempts, PingInterval = 3, time.Millisecond

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 3; i++ {
		mock.ExpectPing().WillReturnError(errors.New("dial tcp: no route to host"))
	}

	err = ping(context.Background(), db)
	assert.ErrorContains(t, err, "after 3 attempts")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing_SucceedsAfterFailure(t *testing.T) {
	defer func(i time.Duration) { PingInterval = i }(PingInterval)
	PingInterval = time.Millisecond

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("temporary failure"))
	mock.ExpectPing()

	assert.NoError(t, ping(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
