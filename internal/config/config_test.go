package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "postgres://postgres:@localhost:5432/football_store?sslmode=disable", cfg.DSN())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("STORAGE_DRIVER", "redis")

	_, err := Load()
	require.Error(t, err)
}

func TestDSN_PrefersDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5433/shop")
	t.Setenv("POSTGRES_HOST", "ignored")

	db, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5433/shop", db.DSN())
}

func TestDSN_FromParts(t *testing.T) {
	d := Database{User: "shop", Password: "p@ss", Name: "store", Host: "db", Port: 5433}
	assert.Equal(t, "postgres://shop:p%40ss@db:5433/store?sslmode=disable", d.DSN())
}

func TestAddr_KeepsColon(t *testing.T) {
	assert.Equal(t, ":9000", Config{Port: ":9000"}.Addr())
	assert.Equal(t, ":9000", Config{Port: "9000"}.Addr())
}
