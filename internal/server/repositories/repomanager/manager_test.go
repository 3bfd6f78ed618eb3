package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/natorvoice/natorvoice/internal/server/config"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ RepositoryManager = (*FileRepositoryManager)(nil)
	_ RepositoryManager = (*RedisRepositoryManager)(nil)
	_ RepositoryManager = (*PostgresRepositoryManager)(nil)
)

func TestOpen_File(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreFile, DataFile: filepath.Join(t.TempDir(), "db.json")}

	m, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Ping(context.Background()))
	total, err := m.Usage().Increment(context.Background(), "user:u1", "2026-10-19", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.Clips())
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{StoreDriver: config.StoreRedis, RedisAddr: mr.Addr()}

	m, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Ping(context.Background()))
	_, err = m.Usage().Increment(context.Background(), "user:u1", "2026-10-19", 5)
	require.NoError(t, err)
	assert.True(t, mr.Exists("usage:user:u1:2026-10-19"))
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

func TestNewRedisRepositoryManager_Close(t *testing.T) {
	mr := miniredis.RunT(t)
	m := NewRedisRepositoryManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	require.NoError(t, m.Close())
	assert.Error(t, m.Ping(context.Background()))
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "etcd"})
	assert.Error(t, err)
}

func withSeams(t *testing.T, db *sql.DB, up func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	origOpen, origUp := sqlOpen, gooseUpContext
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		if driver != "pgx" {
			return nil, errors.New("unexpected driver " + driver)
		}
		return db, nil
	}
	gooseUpContext = up
	t.Cleanup(func() { sqlOpen, gooseUpContext = origOpen, origUp })
}

func TestOpenPostgres_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	var gotDir string
	withSeams(t, db, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	})

	m, err := OpenPostgres(context.Background(), "postgres://test")
	require.NoError(t, err)
	assert.Equal(t, ".", gotDir)
	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.Clips())
	assert.NotNil(t, m.Usage())

	mock.ExpectClose()
	require.NoError(t, m.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenPostgres_MigrationError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()
	mock.ExpectClose()

	withSeams(t, db, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	_, err = OpenPostgres(context.Background(), "postgres://test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenPostgres_PingError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()

	withSeams(t, db, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		t.Fatal("migrations must not run")
		return nil
	})

	_, err = OpenPostgres(context.Background(), "postgres://test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}
