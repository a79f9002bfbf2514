package domain

import "context"

// SpecServer is the port interface that all CI server adapters must implement.
// Every call is an upsert keyed by the document's identity.
type SpecServer interface {
	PublishPlan(ctx context.Context, spec PipelineSpec) error
	PublishDeployment(ctx context.Context, spec DeploymentSpec) error
	PublishPermission(ctx context.Context, grant PermissionGrant) error
}
