// Package server holds decorators shared by the CI server adapters.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhunt/go-log"

	"github.com/gerdiproject/harvester-specs/internal/domain"
)

// GaveUpError is returned when a call still fails with domain.ErrUnavailable after
// every attempt has been used.
type GaveUpError struct {
	Call     string
	Attempts int
	Err      error
}

func (e *GaveUpError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Call, e.Attempts, e.Err)
}

func (e *GaveUpError) Unwrap() error {
	return e.Err
}

// RetryingServer wraps a SpecServer and repeats calls that failed with
// domain.ErrUnavailable. Publishing is an upsert, so repeating a call is safe.
// Any other error, including domain.ErrUnauthorized, is returned at once.
type RetryingServer struct {
	inner   domain.SpecServer
	retries int
	backoff time.Duration
	sleep   func(context.Context, time.Duration) error
}

// Ensure RetryingServer implements SpecServer.
var _ domain.SpecServer = (*RetryingServer)(nil)

// NewRetryingServer creates a RetryingServer.
// retries is the number of extra attempts after the first; backoff doubles after each.
func NewRetryingServer(inner domain.SpecServer, retries int, backoff time.Duration) *RetryingServer {
	if retries < 0 {
		retries = 0
	}
	return &RetryingServer{
		inner:   inner,
		retries: retries,
		backoff: backoff,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (rs *RetryingServer) do(ctx context.Context, call string, fn func() error) error {
	wait := rs.backoff
	var err error
	for attempt := 0; attempt <= rs.retries; attempt++ {
		if attempt > 0 {
			log.Warnf("%s: %s; retrying in %s (%d/%d)", call, err, wait, attempt, rs.retries)
			if serr := rs.sleep(ctx, wait); serr != nil {
				return fmt.Errorf("%s: %w (last error: %w)", call, serr, err)
			}
			wait *= 2
		}
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrUnavailable) {
			return err
		}
	}
	if rs.retries == 0 {
		return err
	}
	return &GaveUpError{Call: call, Attempts: rs.retries + 1, Err: err}
}

func (rs *RetryingServer) PublishPlan(ctx context.Context, spec domain.PipelineSpec) error {
	return rs.do(ctx, "publishing plan "+spec.Ref().String(), func() error {
		return rs.inner.PublishPlan(ctx, spec)
	})
}

func (rs *RetryingServer) PublishDeployment(ctx context.Context, spec domain.DeploymentSpec) error {
	return rs.do(ctx, "publishing deployment "+spec.Name, func() error {
		return rs.inner.PublishDeployment(ctx, spec)
	})
}

func (rs *RetryingServer) PublishPermission(ctx context.Context, grant domain.PermissionGrant) error {
	return rs.do(ctx, "granting "+grant.Resource.String()+" to "+grant.Subject, func() error {
		return rs.inner.PublishPermission(ctx, grant)
	})
}
