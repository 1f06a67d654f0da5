package instrument

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

const masked = "***"

// Masker redacts values whose keys are listed as sensitive. Key matching is
// case-insensitive and applies at any depth of a JSON-like structure.
type Masker struct {
	keys map[string]struct{}
}

// NewMasker builds a Masker for the given field names. Blank names are ignored.
func NewMasker(fields []string) *Masker {
	keys := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(strings.ToLower(field))
		if field == "" {
			continue
		}
		keys[field] = struct{}{}
	}
	return &Masker{keys: keys}
}

// Empty reports whether no key is masked.
func (m *Masker) Empty() bool {
	return m == nil || len(m.keys) == 0
}

// Sensitive reports whether key must be masked.
func (m *Masker) Sensitive(key string) bool {
	if m.Empty() {
		return false
	}
	_, ok := m.keys[strings.ToLower(key)]
	return ok
}

// Data masks decoded JSON values (maps and slices, recursively).
func (m *Masker) Data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.Sensitive(k) {
				out[k] = masked
				continue
			}
			out[k] = m.Data(v2)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.Sensitive(k) {
				out[k] = masked
				continue
			}
			out[k] = v2
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v2 := range val {
			out[i] = m.Data(v2)
		}
		return out
	default:
		return v
	}
}

// JSON masks a raw JSON document. ok is false when payload is not JSON.
func (m *Masker) JSON(payload []byte) (any, bool) {
	if len(payload) == 0 {
		return nil, false
	}
	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, false
	}
	return m.Data(body), true
}

// Headers returns a copy of headers with sensitive values replaced.
func (m *Masker) Headers(headers http.Header) http.Header {
	if m.Empty() {
		return headers
	}

	out := headers.Clone()
	for key := range out {
		if m.Sensitive(key) {
			out.Set(key, masked)
		}
	}
	return out
}

// Attr masks a log attribute, descending into groups and JSON payloads.
func (m *Masker) Attr(attr slog.Attr) slog.Attr {
	if m.Sensitive(attr.Key) {
		return slog.String(attr.Key, masked)
	}

	switch attr.Value.Kind() {
	case slog.KindGroup:
		group := attr.Value.Group()
		out := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			out = append(out, m.Attr(ga))
		}
		attr.Value = slog.GroupValue(out...)
	case slog.KindString:
		s := attr.Value.String()
		if s == "" || (s[0] != '{' && s[0] != '[') {
			return attr
		}
		if body, ok := m.JSON([]byte(s)); ok {
			if b, err := json.Marshal(body); err == nil {
				attr.Value = slog.StringValue(string(b))
			}
		}
	case slog.KindAny:
		switch val := attr.Value.Any().(type) {
		case map[string]any, map[string]string, []any:
			attr.Value = slog.AnyValue(m.Data(val))
		case []byte:
			if body, ok := m.JSON(val); ok {
				if b, err := json.Marshal(body); err == nil {
					attr.Value = slog.StringValue(string(b))
				}
			}
		}
	}

	return attr
}
