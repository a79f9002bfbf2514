package publish

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/gerdiproject/harvester-specs/internal/domain"
)

// GrantFailure records a permission grant the server did not accept.
type GrantFailure struct {
	Subject  string
	Resource domain.ResourceRef
	Err      error
}

func (f GrantFailure) Error() string {
	return fmt.Sprintf("granting %s to %s: %v", f.Resource, f.Subject, f.Err)
}

// GrantReport lists the outcome of every attempted grant.
type GrantReport struct {
	Granted  []domain.PermissionGrant
	Failures []GrantFailure
}

// Merge appends other's outcome to r.
func (r *GrantReport) Merge(other GrantReport) {
	r.Granted = append(r.Granted, other.Granted...)
	r.Failures = append(r.Failures, other.Failures...)
}

// Err combines all failures, or returns nil when every grant succeeded.
func (r GrantReport) Err() error {
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, f)
	}
	return err
}

// FailedSubjects returns the distinct subjects with at least one failed grant, in order.
func (r GrantReport) FailedSubjects() []string {
	seen := map[string]bool{}
	var subjects []string
	for _, f := range r.Failures {
		if !seen[f.Subject] {
			seen[f.Subject] = true
			subjects = append(subjects, f.Subject)
		}
	}
	return subjects
}

// SubjectErr combines the failures of one subject, or returns nil when none failed.
func (r GrantReport) SubjectErr(subject string) error {
	var err error
	for _, f := range r.Failures {
		if f.Subject == subject {
			err = multierr.Append(err, f)
		}
	}
	return err
}
