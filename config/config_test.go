package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "balcao", cfg.MongoDatabase)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "conditional", cfg.CheckoutMode)
	assert.Equal(t, "1414", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.MongoTransactions)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_DRIVER=memory\nCORS_ORIGINS=http://a,http://b\nPORT=9000\n"), 0o600))
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_TTL", "90m")
	t.Cleanup(func() {
		os.Unsetenv("STORE_DRIVER")
		os.Unsetenv("CORS_ORIGINS")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORSOrigins)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "UTC"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
