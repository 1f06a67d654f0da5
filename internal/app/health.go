package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

var errNotReady = goerror.NewBusiness("SERVICE_UNAVAILABLE", "Service unavailable", goerror.CodeUnavailable)

type pinger interface {
	Ping(ctx context.Context) error
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type healthResponse struct {
	Status string `json:"status"`
}

// health reports ok when Postgres and Redis answer a ping.
func (a *App) health(r *router.Request) (any, error) {
	deps := map[string]pinger{}
	if a.dbConn != nil {
		deps["database"] = a.dbConn
	}
	if a.cacheConn != nil {
		deps["redis"] = pingerFunc(func(ctx context.Context) error { return a.cacheConn.Ping(ctx).Err() })
	}

	return checkHealth(r.Context(), deps)
}

func checkHealth(ctx context.Context, deps map[string]pinger) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	for name, dep := range deps {
		if err := dep.Ping(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to ping dependency", "name", name, "error", err)
			return nil, errNotReady
		}
	}

	return healthResponse{Status: "ok"}, nil
}
