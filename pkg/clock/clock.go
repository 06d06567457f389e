// Package clock centralizes the "unsigned 64-bit microseconds since Unix
// epoch" timestamp convention used throughout the data model, so every layer
// stamps time the same way.
package clock

import "time"

// NowMicros returns the current time as microseconds since the Unix epoch.
func NowMicros() uint64 {
	return uint64(time.Now().UnixMicro())
}

// FromTime converts a time.Time to the microsecond epoch representation.
func FromTime(t time.Time) uint64 {
	return uint64(t.UnixMicro())
}

// ToTime converts a microsecond epoch timestamp back to a time.Time (UTC).
func ToTime(micros uint64) time.Time {
	return time.UnixMicro(int64(micros)).UTC()
}
