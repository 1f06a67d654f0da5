package router

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const maxLoggedBody = 16 * 1024

// recorder captures what the observability middleware reports: status, size,
// a bounded copy of the body and the error the handler returned.
type recorder struct {
	http.ResponseWriter
	status int
	size   int
	body   bytes.Buffer
	err    error
}

func (r *recorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	if room := maxLoggedBody - r.body.Len(); room > 0 {
		r.body.Write(p[:min(len(p), room)])
	}

	n, err := r.ResponseWriter.Write(p)
	r.size += n
	return n, err
}

// SetError is called by the router with the handler's error.
func (r *recorder) SetError(err error) {
	r.err = err
}

func (r *recorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

type httpMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newHTTPMetrics(m metric.Meter) httpMetrics {
	var (
		hm  httpMetrics
		err error
	)

	hm.requests, err = m.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests served"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}

	hm.duration, err = m.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"), metric.WithUnit("ms"))
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return hm
}

func (hm httpMetrics) record(ctx context.Context, elapsed time.Duration, attrs []attribute.KeyValue) {
	opt := metric.WithAttributes(attrs...)
	if hm.requests != nil {
		hm.requests.Add(ctx, 1, opt)
	}
	if hm.duration != nil {
		hm.duration.Record(ctx, float64(elapsed.Microseconds())/1000, opt)
	}
}

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// peekBody reads up to maxLoggedBody bytes of the request body and puts them
// back in front of the rest so the handler still sees the full body.
func peekBody(r *http.Request) (head []byte, truncated bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}

	//nolint:errcheck // logging only; the handler surfaces read errors
	head, _ = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(head), r.Body))

	if len(head) > maxLoggedBody {
		return head[:maxLoggedBody], true
	}
	return head, false
}

// loggedBody returns a masked JSON body. Anything that is not valid JSON,
// including a truncated body, is reported by size only, since it could still
// carry a code or token.
func loggedBody(raw []byte, truncated bool, masker *instrument.Masker) any {
	if len(raw) == 0 {
		return nil
	}
	if !truncated {
		if masked, ok := masker.JSON(raw); ok {
			return masked
		}
	}
	return fmt.Sprintf("<%d bytes omitted>", len(raw))
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	var fields []string
	if cfg != nil {
		fields = cfg.GetArray("instrument.log_mask_fields")
	}
	masker := instrument.NewMasker(fields)
	tracer := ins.Tracer("http.server")
	metrics := newHTTPMetrics(ins.Meter("http.server"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := matchedRoutePath(r)

			ctx, span := tracer.Start(r.Context(), r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
					semconv.NetworkProtocolVersionKey.String(r.Proto),
					semconv.ServerAddressKey.String(r.Host),
					attribute.String("user_agent.original", r.UserAgent()),
				),
			)
			defer span.End()

			reqBody, reqTruncated := peekBody(r)

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.Status()
			elapsed := time.Since(start)

			attrs := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			}
			span.SetAttributes(semconv.HTTPResponseStatusCodeKey.Int(status), attribute.Int("http.response.body.size", rec.size))

			if rec.err != nil {
				span.RecordError(rec.err)
			}
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			metrics.record(ctx, elapsed, attrs)

			slog.Log(ctx, levelForStatus(status), "http request",
				"method", r.Method,
				"path", route,
				"status", status,
				"bytes", rec.size,
				"latency_ms", elapsed.Milliseconds(),
				"headers", masker.Headers(r.Header),
				"request", loggedBody(reqBody, reqTruncated, masker),
				"response", loggedBody(rec.body.Bytes(), rec.size > rec.body.Len(), masker),
			)
		})
	}
}
