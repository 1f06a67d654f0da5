package router

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

const maxBodyBytes = 64 * 1024

// Request is what endpoint handlers receive.
type Request struct {
	*http.Request
}

// ClientIP returns the caller address without port. middlewareIP has already
// resolved proxy headers into RemoteAddr.
func (r *Request) ClientIP() string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// DecodeBody decodes exactly one JSON object into dst. Empty bodies, unknown
// fields, trailing data and bodies over 64KiB fail with INVALID_REQUEST_BODY.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return goerror.NewInvalidFormat("Request body is empty")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return goerror.NewInvalidFormat("Request body is empty")
		}
		return goerror.NewInvalidFormat()
	}

	if dec.More() {
		return goerror.NewInvalidFormat()
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}
