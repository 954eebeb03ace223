// Package clock provides the wall clock used outside tests.
package clock

import "time"

// UTC reports the current time in UTC.
type UTC struct{}

func (UTC) Now() time.Time {
	return time.Now().UTC()
}
