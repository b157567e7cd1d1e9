package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarshamigo11/task-portal/internal/config"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  environment: "test"
  port: "8080"
  base_url: "localhost:8080"
  jwt_signing_key: "secret"
  allowed_cors_domains:
    - "http://localhost:3000"
gin:
  mode: "test"
postgres:
  host: "localhost"
  port: "5432"
  user: "test"
  password: "test"
  name: "taskportal"
storage:
  driver: "file"
  path: "./data/state.json"
`), 0o644))

	conf, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, "secret", conf.API.JWTSigningKey)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "test", conf.Gin.Mode)
	assert.Equal(t, "taskportal", conf.Postgres.Name)
	assert.Equal(t, "file", conf.Storage.Driver)
	assert.Equal(t, "./data/state.json", conf.Storage.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
