package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  env: staging
  maintenance:
    endpoints: "POST /v1/auth/request-otp, ,GET /health"
modules:
  auth:
    cooldown_seconds: 60
    code_ttl_minutes: 5
    session_ttl_days: 30
    dispatch_timeout: 5s
    code_digits: 6
hash:
  code:
    argon2_memory: 19456
    expose: true
labels: "a:1, b : 2,broken"
ratio: 0.5
`

func TestNewViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sample))
	require.NoError(t, err)
	defer cfg.Close()

	assert.Equal(t, "staging", cfg.GetString("app.env"))
	assert.Equal(t, 60*time.Second, cfg.GetSecond("modules.auth.cooldown_seconds"))
	assert.Equal(t, 5*time.Minute, cfg.GetMinute("modules.auth.code_ttl_minutes"))
	assert.Equal(t, 30*24*time.Hour, cfg.GetDay("modules.auth.session_ttl_days"))
	assert.Equal(t, 5*time.Second, cfg.GetDuration("modules.auth.dispatch_timeout"))
	assert.Equal(t, 6, cfg.GetInt("modules.auth.code_digits"))
	assert.Equal(t, int64(6), cfg.GetInt64("modules.auth.code_digits"))
	assert.Equal(t, uint32(19456), cfg.GetUint32("hash.code.argon2_memory"))
	assert.True(t, cfg.GetBool("hash.code.expose"))
	assert.InDelta(t, 0.5, cfg.GetFloat64("ratio"), 0.0001)
	assert.Equal(t, []string{"POST /v1/auth/request-otp", "GET /health"}, cfg.GetArray("app.maintenance.endpoints"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, cfg.GetMap("labels"))
	assert.Empty(t, cfg.GetArray("missing"))
	assert.Zero(t, cfg.GetSecond("missing"))
}

func TestNewViperFromBytes_Errors(t *testing.T) {
	_, err := NewViperFromBytes("", []byte(sample))
	assert.Error(t, err)

	_, err = NewViperFromBytes("yaml", []byte("app: [unterminated"))
	assert.Error(t, err)
}

func TestNewViper_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sample), 0o600))

	t.Setenv("OTPGATE_APP_ENV", "production")

	cfg, err := NewViper(file)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.GetString("app.env"))
	assert.Equal(t, 6, cfg.GetInt("modules.auth.code_digits"))
}

func TestNewViper_Missing(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

var _ Config = (*Viper)(nil)
