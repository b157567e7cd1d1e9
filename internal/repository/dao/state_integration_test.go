package dao_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adarshamigo11/task-portal/internal/repository/dao"
)

// startPostgres spins up a throwaway Postgres container and returns an open
// gorm handle with the schema migrated. Skips when Docker is unavailable.
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not construct dockertest pool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("could not connect to Docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=taskportal",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	dsn := fmt.Sprintf("host=localhost port=%s user=test password=test dbname=taskportal sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, pingErr := db.DB()
		if pingErr != nil {
			return pingErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	return db
}

func TestStateDAO_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := startPostgres(t)
	d := dao.NewStateDAO(db)
	ctx := context.Background()

	t.Run("get before first put", func(t *testing.T) {
		_, err := d.Get(ctx)
		assert.ErrorIs(t, err, dao.ErrStateNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, d.Put(ctx, []byte(`{"v":1}`)))

		blob, err := d.Get(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":1}`, string(blob))
	})

	t.Run("second put overwrites the slot", func(t *testing.T) {
		require.NoError(t, d.Put(ctx, []byte(`{"v":2}`)))

		blob, err := d.Get(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(blob))
	})
}
