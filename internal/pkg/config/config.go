// Package config abstracts runtime configuration behind typed getters so
// modules never touch the underlying configuration library directly.
package config

import (
	"io"
	"time"
)

// Config retrieves configuration values of various types. Implementations
// return zero values for absent keys; callers that need hard failures should
// check required keys at startup.
type Config interface {
	io.Closer

	// GetBool returns the value for key as bool.
	GetBool(key string) bool
	// GetInt returns the value for key as int.
	GetInt(key string) int
	// GetInt32 returns the value for key as int32.
	GetInt32(key string) int32
	// GetInt64 returns the value for key as int64.
	GetInt64(key string) int64
	// GetUint16 returns the value for key as uint16.
	GetUint16(key string) uint16
	// GetFloat64 returns the value for key as float64.
	GetFloat64(key string) float64
	// GetString returns the value for key as string.
	GetString(key string) string

	// GetArray returns the value for key split by commas.
	GetArray(key string) []string

	// GetSecond returns the integer value for key as seconds.
	GetSecond(key string) time.Duration
	// GetMinute returns the integer value for key as minutes.
	GetMinute(key string) time.Duration
	// GetHour returns the integer value for key as hours.
	GetHour(key string) time.Duration
	// GetDay returns the integer value for key as days (24h).
	GetDay(key string) time.Duration
}
