package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tollgate/tollgate/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 5710, cfg.Server.Port)
	assert.Equal(t, "auto", cfg.Storage.Region)
	assert.True(t, cfg.Storage.UsePathStyle)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.CORS.Enabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 8080
storage:
  endpoint: https://minio.internal:9000
  region: eu-west-1
  bucket: media
  access_key_id: AKIAEXAMPLE
  secret_key: shhh
  public_base_url: https://pub.example.com
auth:
  username: admin
  password: hunter2
  token_secret: signing-secret
cors:
  enabled: true
  allowedorigins: ["https://app.example.com"]
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://minio.internal:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "eu-west-1", cfg.Storage.Region)
	assert.Equal(t, "media", cfg.Storage.Bucket)
	assert.Equal(t, "https://pub.example.com", cfg.Storage.PublicBaseURL)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, "hunter2", cfg.Auth.Password)
	assert.Equal(t, "signing-secret", cfg.Auth.TokenSecret)
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TOLLGATE_SERVER_PORT", "9001")
	t.Setenv("TOLLGATE_STORAGE_BUCKET", "env-bucket")
	t.Setenv("TOLLGATE_AUTH_PASSWORD", "env-pass")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "env-bucket", cfg.Storage.Bucket)
	assert.Equal(t, "env-pass", cfg.Auth.Password)
}

func TestLoad_FlagOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("bucket", "", "")
	require.NoError(t, flags.Parse([]string{"--port=7000", "--bucket=flag-bucket"}))

	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "flag-bucket", cfg.Storage.Bucket)
}

func TestLoad_InvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 99999
log:
  level: loud
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	_, err := config.Load([]string{configPath}, nil)
	assert.Error(t, err)
}

func TestAuthConfig_ResolveTokenSecret(t *testing.T) {
	a := config.AuthConfig{Password: "pw"}
	assert.Equal(t, "pw", a.ResolveTokenSecret())

	a.TokenSecret = "dedicated"
	assert.Equal(t, "dedicated", a.ResolveTokenSecret())

	assert.Empty(t, config.AuthConfig{}.ResolveTokenSecret())
}

func TestStorageConfig_S3Config(t *testing.T) {
	sc := config.StorageConfig{
		Endpoint:     "https://s3.local",
		Region:       "auto",
		Bucket:       "b",
		AccessKeyID:  "ak",
		SecretKey:    "sk",
		UsePathStyle: true,
	}

	s3 := sc.S3Config()
	assert.Equal(t, "https://s3.local", s3.Endpoint)
	assert.Equal(t, "b", s3.Bucket)
	assert.Equal(t, "ak", s3.AccessKeyID)
	assert.True(t, s3.UsePathStyle)
}
