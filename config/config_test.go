package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":10000", cfg.Addr)
	assert.Equal(t, "recipedb", cfg.MongoDB)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30, cfg.PageLimit)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 5*time.Second, cfg.CallTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("PAGE_LIMIT", "50")
	t.Setenv("CALL_TIMEOUT", "2s")
	t.Setenv("MINIO_BUCKET", "staging-images")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 50, cfg.PageLimit)
	assert.Equal(t, 2*time.Second, cfg.CallTimeout)
	assert.Equal(t, "staging-images", cfg.Minio.Bucket)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("PAGE_LIMIT", "-3")
	t.Setenv("CALL_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.PageLimit)
	assert.Equal(t, 5*time.Second, cfg.CallTimeout)
}
