package domain

import (
	"fmt"
	"strconv"
	"time"
)

// discordEpochMillis is the Discord epoch (2015-01-01T00:00:00Z) in Unix
// milliseconds. Snowflake timestamps are offsets from this epoch.
const discordEpochMillis = 1420070400000

// snowflakeTimestampShift is the bit offset of the timestamp within a snowflake.
const snowflakeTimestampShift = 22

// Snowflake is a Discord object ID. Discord transmits IDs as decimal strings
// because they exceed JavaScript's safe integer range; we keep the string
// form and parse on demand.
type Snowflake string

// ParseSnowflake validates that s is a well-formed snowflake.
func ParseSnowflake(s string) (Snowflake, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty snowflake", ErrValidation)
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return "", fmt.Errorf("%w: malformed snowflake %q", ErrValidation, s)
	}
	return Snowflake(s), nil
}

// Uint64 returns the numeric value of the snowflake. Returns 0 for a
// malformed snowflake; use ParseSnowflake at trust boundaries.
func (s Snowflake) Uint64() uint64 {
	v, _ := strconv.ParseUint(string(s), 10, 64)
	return v
}

// IsZero reports whether the snowflake is empty.
func (s Snowflake) IsZero() bool { return s == "" }

// Time extracts the creation timestamp embedded in the snowflake.
// The zero snowflake maps to the Discord epoch.
func (s Snowflake) Time() time.Time {
	ms := int64(s.Uint64()>>snowflakeTimestampShift) + discordEpochMillis
	return time.UnixMilli(ms).UTC()
}

func (s Snowflake) String() string { return string(s) }
