// Package memory is an in-process SpecServer. Documents are stored by identity, so
// publishing the same topology twice leaves one copy of each.
package memory

import (
	"context"
	"sync"

	"github.com/gerdiproject/harvester-specs/internal/domain"
)

// Server keeps published documents in maps keyed the way a CI server keys them.
type Server struct {
	mu          sync.Mutex
	plans       map[string]domain.PipelineSpec
	deployments map[string]domain.DeploymentSpec
	grants      map[string]domain.PermissionGrant
	failures    map[string]error
	calls       int
}

var _ domain.SpecServer = (*Server)(nil)

// NewServer creates an empty Server.
func NewServer() *Server {
	return &Server{
		plans:       make(map[string]domain.PipelineSpec),
		deployments: make(map[string]domain.DeploymentSpec),
		grants:      make(map[string]domain.PermissionGrant),
		failures:    make(map[string]error),
	}
}

// FailGrantsFor makes every permission call for subject return err.
func (s *Server) FailGrantsFor(subject string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[subject] = err
}

func (s *Server) PublishPlan(_ context.Context, spec domain.PipelineSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.plans[spec.Ref().String()] = spec
	return nil
}

func (s *Server) PublishDeployment(_ context.Context, spec domain.DeploymentSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.deployments[spec.Name] = spec
	return nil
}

func (s *Server) PublishPermission(_ context.Context, grant domain.PermissionGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.failures[grant.Subject]; ok {
		return err
	}
	s.grants[grantKey(grant)] = grant
	return nil
}

func grantKey(g domain.PermissionGrant) string {
	return g.Resource.String() + "|" + g.Subject
}

// Plan returns the stored plan with the given reference.
func (s *Server) Plan(ref domain.PlanRef) (domain.PipelineSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[ref.String()]
	return p, ok
}

// Deployment returns the stored deployment project with the given name.
func (s *Server) Deployment(name string) (domain.DeploymentSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deployments[name]
	return d, ok
}

// Grant returns the stored grant for subject on resource.
func (s *Server) Grant(resource domain.ResourceRef, subject string) (domain.PermissionGrant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grants[resource.String()+"|"+subject]
	return g, ok
}

// Counts reports how many plans, deployment projects and grants are stored.
func (s *Server) Counts() (plans, deployments, grants int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.plans), len(s.deployments), len(s.grants)
}

// Calls reports how many publish calls were received, failed ones included.
func (s *Server) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
