package router

import (
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
)

// middlewareMaintenance blocks routes listed in app.maintenance.endpoints.
// Entries are "METHOD /path" or a bare "/path" for every method. The list is
// read per request so it follows config hot reloads.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg == nil {
				next.ServeHTTP(w, r)
				return
			}

			route := matchedRoutePath(r)
			for _, endpoint := range cfg.GetArray("app.maintenance.endpoints") {
				if endpoint == route || endpoint == r.Method+" "+route {
					WriteError(w, errUnavailable)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
