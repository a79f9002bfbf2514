// Package publish pushes plan and deployment documents and per-developer permission
// grants to a CI server.
package publish

import (
	"context"
	"fmt"

	"github.com/jhunt/go-log"

	"github.com/gerdiproject/harvester-specs/internal/domain"
)

// RemoteCallError reports a publish call the CI server rejected or never answered.
type RemoteCallError struct {
	Resource string
	Err      error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("publishing %s: %v", e.Resource, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// Rights lists what developers receive on each kind of resource.
type Rights struct {
	Plan          []domain.Right
	Deployment    []domain.Right
	Environment   []domain.Right
	LoggedIn      []domain.Right
	AnonymousView bool
}

// DefaultRights lets developers view and clone the plan and view the deployment project
// and its environments. Every logged-in user may view; anonymous viewing is allowed.
func DefaultRights() Rights {
	return Rights{
		Plan:          []domain.Right{domain.RightView, domain.RightClone},
		Deployment:    []domain.Right{domain.RightView},
		Environment:   []domain.Right{domain.RightView},
		LoggedIn:      []domain.Right{domain.RightView},
		AnonymousView: true,
	}
}

// Publisher publishes documents to one server, one call per document.
type Publisher struct {
	server domain.SpecServer
	rights Rights
}

// NewPublisher creates a Publisher.
func NewPublisher(server domain.SpecServer, rights Rights) *Publisher {
	return &Publisher{server: server, rights: rights}
}

// PublishPipeline sends the whole plan (stages, jobs, tasks, artifacts) as one document.
func (p *Publisher) PublishPipeline(ctx context.Context, spec domain.PipelineSpec) error {
	log.Infof("publishing plan %s (%s)", spec.Ref(), spec.Name)
	if err := p.server.PublishPlan(ctx, spec); err != nil {
		return &RemoteCallError{Resource: "plan " + spec.Ref().String(), Err: err}
	}
	return nil
}

// PublishDeployment sends the deployment project with all environments as one document.
func (p *Publisher) PublishDeployment(ctx context.Context, spec domain.DeploymentSpec) error {
	log.Infof("publishing deployment project %s for plan %s", spec.Name, spec.SourcePlan)
	if err := p.server.PublishDeployment(ctx, spec); err != nil {
		return &RemoteCallError{Resource: "deployment " + spec.Name, Err: err}
	}
	return nil
}

// GrantPermissions publishes one permission document per email. A failed grant is
// logged and recorded; the remaining grants are still attempted.
func (p *Publisher) GrantPermissions(ctx context.Context, resource domain.ResourceRef, emails []string, rightsFor func(email string) []domain.Right) GrantReport {
	var report GrantReport
	for _, email := range emails {
		grant := domain.PermissionGrant{
			Subject:        email,
			Resource:       resource,
			Rights:         rightsFor(email),
			LoggedInRights: p.rights.LoggedIn,
			AnonymousView:  p.rights.AnonymousView,
		}
		if err := p.server.PublishPermission(ctx, grant); err != nil {
			log.Warnf("could not grant %v on %s to %s: %s", grant.Rights, resource, email, err)
			report.Failures = append(report.Failures, GrantFailure{Subject: email, Resource: resource, Err: err})
			continue
		}
		log.Debugf("granted %v on %s to %s", grant.Rights, resource, email)
		report.Granted = append(report.Granted, grant)
	}
	return report
}

// Report summarises a complete run.
type Report struct {
	Plan       domain.PlanRef
	Deployment string
	Grants     GrantReport
}

// Run publishes the plan, its grants, the deployment project and the deployment and
// environment grants, in that order. A plan or deployment failure stops the run and is
// returned; grant failures only end up in the report.
func (p *Publisher) Run(ctx context.Context, plan domain.PipelineSpec, deployment domain.DeploymentSpec, emails []string) (Report, error) {
	report := Report{Plan: plan.Ref(), Deployment: deployment.Name}

	if err := p.PublishPipeline(ctx, plan); err != nil {
		return report, err
	}
	report.Grants.Merge(p.GrantPermissions(ctx,
		domain.ResourceRef{Kind: domain.ResourcePlan, Plan: plan.Ref()},
		emails, p.fixed(p.rights.Plan)))

	if err := p.PublishDeployment(ctx, deployment); err != nil {
		return report, err
	}
	report.Grants.Merge(p.GrantPermissions(ctx,
		domain.ResourceRef{Kind: domain.ResourceDeployment, Deployment: deployment.Name},
		emails, p.fixed(p.rights.Deployment)))

	for _, env := range deployment.Environments {
		report.Grants.Merge(p.GrantPermissions(ctx,
			domain.ResourceRef{Kind: domain.ResourceEnvironment, Deployment: deployment.Name, Environment: env.Name},
			emails, p.fixed(p.rights.Environment)))
	}
	return report, nil
}

func (p *Publisher) fixed(rights []domain.Right) func(string) []domain.Right {
	return func(string) []domain.Right {
		return append([]domain.Right(nil), rights...)
	}
}
