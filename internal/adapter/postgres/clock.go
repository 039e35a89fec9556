package postgres

import "time"

// Now returns the current UTC time truncated to the microsecond precision
// PostgreSQL stores, so stamped values round-trip unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
