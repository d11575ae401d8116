package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemforge/cad-converter/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("CAD_SERVICE_URL", "http://cad.internal:9000")
	t.Setenv("CAD_CONVERTER_S3_ENDPOINT", "minio.internal:9001")
	t.Setenv("CAD_CONVERTER_S3_ACCESS_KEY", "access")
	t.Setenv("CAD_CONVERTER_S3_SECRET_KEY", "secret")
}

func TestNewFromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, "http://cad.internal:9000", cfg.Service.CadService.URL)
	assert.Equal(t, 300*time.Second, cfg.Service.CadService.Timeout)
	assert.Equal(t, "minio.internal:9001", cfg.Service.S3.Endpoint)
	assert.Equal(t, "cad-models", cfg.Service.S3.Bucket)
	assert.Equal(t, ":8080", cfg.Service.Address)
	assert.Equal(t, "pgsql", cfg.Database.Type)
}

func TestNewMissingCadServiceURL(t *testing.T) {
	t.Setenv("CAD_SERVICE_URL", "")
	t.Setenv("CAD_CONVERTER_S3_ENDPOINT", "minio.internal:9001")
	t.Setenv("CAD_CONVERTER_S3_ACCESS_KEY", "access")
	t.Setenv("CAD_CONVERTER_S3_SECRET_KEY", "secret")

	_, err := config.New()
	require.Error(t, err, "a missing CAD service URL must be a startup-time failure")
}

func TestCadServiceTimeoutOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CAD_SERVICE_TIMEOUT", "30s")

	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Service.CadService.Timeout)
}

func TestNewDefaultIsValid(t *testing.T) {
	cfg := config.NewDefault()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, ":memory:", cfg.Database.Name)
}
