package domain

import "fmt"

// Right is a permission on a plan, deployment or environment.
type Right string

const (
	RightView  Right = "VIEW"
	RightClone Right = "CLONE"
	RightEdit  Right = "EDIT"
	RightBuild Right = "BUILD"
	RightAdmin Right = "ADMIN"
)

// ParseRight validates a right name.
func ParseRight(s string) (Right, error) {
	switch r := Right(s); r {
	case RightView, RightClone, RightEdit, RightBuild, RightAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown permission %q", s)
}

// ResourceKind selects which permission document a grant produces.
type ResourceKind string

const (
	ResourcePlan        ResourceKind = "plan"
	ResourceDeployment  ResourceKind = "deployment"
	ResourceEnvironment ResourceKind = "environment"
)

// ResourceRef names the object a grant applies to.
type ResourceRef struct {
	Kind        ResourceKind
	Plan        PlanRef
	Deployment  string
	Environment string
}

func (r ResourceRef) String() string {
	switch r.Kind {
	case ResourcePlan:
		return "plan " + r.Plan.String()
	case ResourceDeployment:
		return "deployment " + r.Deployment
	case ResourceEnvironment:
		return "environment " + r.Deployment + "/" + r.Environment
	}
	return string(r.Kind)
}

// PermissionGrant gives one user a set of rights on one resource.
type PermissionGrant struct {
	Subject        string
	Resource       ResourceRef
	Rights         []Right
	LoggedInRights []Right
	AnonymousView  bool
}
