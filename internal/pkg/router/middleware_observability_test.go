package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggedBody(t *testing.T) {
	masker := instrument.NewMasker([]string{"code", "debug_otp"})

	got := loggedBody([]byte(`{"identifier":"a@b.co","code":"482913"}`), false, masker)
	assert.Equal(t, map[string]any{"identifier": "a@b.co", "code": "***"}, got)

	assert.Equal(t, "<23 bytes omitted>", loggedBody([]byte(`{"code":"482913",broken`), false, masker))
	assert.Equal(t, "<14 bytes omitted>", loggedBody([]byte(`{"code":"48291`), true, masker))
	assert.Nil(t, loggedBody(nil, false, masker))
}

func TestPeekBody(t *testing.T) {
	payload := strings.Repeat("x", maxLoggedBody+10)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/request-otp", strings.NewReader(payload))

	head, truncated := peekBody(req)
	assert.True(t, truncated)
	assert.Len(t, head, maxLoggedBody)

	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(rest))

	head, truncated = peekBody(httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	assert.Nil(t, head)
	assert.False(t, truncated)
}

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, levelForStatus(http.StatusOK))
	assert.Equal(t, slog.LevelWarn, levelForStatus(http.StatusTooManyRequests))
	assert.Equal(t, slog.LevelError, levelForStatus(http.StatusServiceUnavailable))
}

func TestRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &recorder{ResponseWriter: w}
	assert.Equal(t, http.StatusOK, rec.Status())

	rec.WriteHeader(http.StatusTooManyRequests)
	rec.WriteHeader(http.StatusOK)
	_, err := rec.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTooManyRequests, rec.Status())
	assert.Equal(t, 5, rec.size)
	assert.Equal(t, "hello", rec.body.String())
}
