package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

const (
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is read when a proxy only sets X-Request-ID.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

var correlationHeaders = []string{HeaderCorrelationID, HeaderRequestID}

// correlationIDFrom returns the first usable id the client sent. Values with
// line breaks are ignored so they cannot split log lines or headers.
func correlationIDFrom(h http.Header) string {
	for _, name := range correlationHeaders {
		v := h.Get(name)
		if v == "" || strings.ContainsAny(v, "\r\n") {
			continue
		}
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		if len(v) > maxCorrelationIDLen {
			v = v[:maxCorrelationIDLen]
		}
		return v
	}
	return ""
}

// middlewareCorrelationID echoes the id on the response and stores it in the
// request context, where the logger and the otp_requested publisher pick it up.
func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := correlationIDFrom(r.Header)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
