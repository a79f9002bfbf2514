package server

import (
	"context"
	"time"
)

// NoSleep replaces the backoff wait so tests run instantly.
func NoSleep(rs *RetryingServer, slept *[]time.Duration) {
	rs.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}
