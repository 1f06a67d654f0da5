// Package config exposes typed, read-only access to application settings.
package config

import (
	"io"
	"time"
)

// Config returns settings by dotted key (for example "modules.auth.cooldown_seconds").
//
// Missing keys and values that cannot be converted yield the zero value of the
// requested type; callers apply their own defaults.
type Config interface {
	io.Closer

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer number of minutes.
	GetMinute(key string) time.Duration
	// GetDay reads an integer number of 24h days.
	GetDay(key string) time.Duration
	// GetDuration reads a Go duration string such as "1m30s".
	GetDuration(key string) time.Duration

	GetInt(key string) int
	GetInt64(key string) int64
	GetUint32(key string) uint32
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetArray reads a comma separated list. Blank elements are dropped.
	GetArray(key string) []string

	// GetMap reads "k1:v1,k2:v2" pairs.
	GetMap(key string) map[string]string
}
