// Package valueobject holds small value types shared by entities and
// repositories.
package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnsupportedScanType = errors.New("valueobject: unsupported JSONMap scan type")

// JSONMap is a free-form JSON object such as a session's device_info. It is
// stored as JSONB; a nil map is SQL NULL.
type JSONMap map[string]any

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan accepts raw JSON as bytes or text, or a map already decoded by the
// driver. NULL and empty input scan into a nil map.
func (j *JSONMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
		return nil
	case map[string]any:
		*j = v
		return nil
	case string:
		return j.unmarshal([]byte(v))
	case []byte:
		return j.unmarshal(v)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedScanType, src)
	}
}

func (j *JSONMap) unmarshal(raw []byte) error {
	if len(raw) == 0 {
		*j = nil
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("valueobject: decode JSONMap: %w", err)
	}
	*j = m
	return nil
}

// GetString returns the string under key, or "" when it is missing or not a
// string.
func (j JSONMap) GetString(key string) string {
	s, _ := j[key].(string)
	return s
}
