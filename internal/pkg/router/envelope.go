package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the JSON body of every response.
type Envelope struct {
	Status string         `json:"status"`
	Data   any            `json:"data"`
	Meta   map[string]any `json:"meta"`
	Errors []ErrorItem    `json:"errors"`
}

// ErrorItem is one entry of Envelope.Errors.
type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func successEnvelope(data any, meta map[string]any) Envelope {
	if meta == nil {
		meta = map[string]any{}
	}
	return Envelope{Status: StatusSuccess, Data: data, Meta: meta}
}

func errorEnvelope(items ...ErrorItem) Envelope {
	return Envelope{Status: StatusError, Meta: map[string]any{}, Errors: items}
}

var internalError = ErrorItem{Code: "INTERNAL_SERVER_ERROR", Message: "Internal server error"}

// errorItems converts err into envelope entries and the HTTP status to send.
// Anything that is not a non-server *goerror.Error collapses into a generic 500.
func errorItems(err error) ([]ErrorItem, int) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Type() == goerror.TypeServer {
		return []ErrorItem{internalError}, http.StatusInternalServerError
	}

	fields := gerr.Fields()
	var verr validator.V10ValidationError
	if errors.As(err, &verr) {
		fields = verr.Values()
	}

	if len(fields) == 0 {
		msg := gerr.Msg()
		if msg == "" {
			msg = gerr.Error()
		}
		return []ErrorItem{{Code: gerr.Key(), Message: msg}}, gerr.StatusCode()
	}

	names := lo.Keys(fields)
	slices.Sort(names)

	return lo.Map(names, func(name string, _ int) ErrorItem {
		return ErrorItem{Code: gerr.Key(), Message: fields[name]}
	}), gerr.StatusCode()
}

// WriteError renders err as an error envelope.
func WriteError(w http.ResponseWriter, err error) {
	items, code := errorItems(err)
	writeJSON(w, errorEnvelope(items...), code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
