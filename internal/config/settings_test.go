package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadSettings_Defaults(t *testing.T) {
	for _, key := range []string{"LISTEN_ADDR", "DATA_DIR", "UPLOAD_DIR", "IMAGE_DIR", "RECORD_BACKEND", "REDIS_ADDR", "IS_PROD", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	s := LoadSettings(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, ServerListenAddr, s.ListenAddr)
	assert.Equal(t, DataDir, s.DataDir)
	assert.Equal(t, UploadDir, s.UploadDir)
	assert.Equal(t, ImageDir, s.ImageDir)
	assert.Equal(t, RecordBackendFile, s.RecordBackend)
	assert.Equal(t, RedisAddr, s.RedisAddr)
	assert.False(t, s.IsProd)
	assert.Equal(t, []string{DefaultAllowedOrigin}, s.AllowedOrigins)
}

func TestLoadSettings_OriginList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " http://a.test, ,http://b.test ")
	s := LoadSettings(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, s.AllowedOrigins)
}

func TestLoadSettings_EnvFile(t *testing.T) {
	for _, key := range []string{"DATA_DIR", "RECORD_BACKEND", "IS_PROD"} {
		os.Unsetenv(key)
	}
	t.Cleanup(func() {
		os.Unsetenv("DATA_DIR")
		os.Unsetenv("RECORD_BACKEND")
		os.Unsetenv("IS_PROD")
	})

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "DATA_DIR=/srv/content\nRECORD_BACKEND=redis\nIS_PROD=true\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	s := LoadSettings(envFile)

	assert.Equal(t, "/srv/content", s.DataDir)
	assert.Equal(t, RecordBackendRedis, s.RecordBackend)
	assert.True(t, s.IsProd)
}
