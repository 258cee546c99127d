package models

import "time"

// TimeLayout keeps the fractional seconds fixed-width so that stored
// timestamps sort lexicographically in chronological order, which every
// "newest first" listing relies on.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamp returns the current UTC time in TimeLayout.
func Timestamp() string {
	return time.Now().UTC().Format(TimeLayout)
}
