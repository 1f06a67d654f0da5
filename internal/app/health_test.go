package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })

	tests := []struct {
		name     string
		deps     map[string]pinger
		wantCode int
		wantBody string
	}{
		{
			name:     "no dependencies",
			deps:     map[string]pinger{},
			wantCode: http.StatusOK,
			wantBody: `{"status":"success","data":{"status":"ok"},"meta":{},"errors":null}`,
		},
		{
			name:     "all dependencies up",
			deps:     map[string]pinger{"database": ok, "redis": ok},
			wantCode: http.StatusOK,
			wantBody: `{"status":"success","data":{"status":"ok"},"meta":{},"errors":null}`,
		},
		{
			name:     "redis down",
			deps:     map[string]pinger{"database": ok, "redis": down},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"error","data":null,"meta":{},"errors":[{"code":"SERVICE_UNAVAILABLE","message":"Service unavailable"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := router.NewRouter(router.Config{})
			r.GET("/health", func(req *router.Request) (any, error) {
				return checkHealth(req.Context(), tt.deps)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
