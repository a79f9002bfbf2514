package domain

// TriggerKind selects when an environment deploys.
type TriggerKind string

const (
	TriggerAfterSuccessfulBuild         TriggerKind = "after-successful-build"
	TriggerAfterSuccessfulBuildOnBranch TriggerKind = "after-successful-build-on-branch"
	TriggerManual                       TriggerKind = "manual"
)

// Trigger is the deployment condition of an environment.
type Trigger struct {
	Kind   TriggerKind
	Branch string
}

// FiresFor reports whether a successful build of branch starts this environment.
// A plain after-successful-build trigger only follows the plan's default branch.
func (t Trigger) FiresFor(branch, defaultBranch string) bool {
	switch t.Kind {
	case TriggerAfterSuccessfulBuild:
		return branch == defaultBranch
	case TriggerAfterSuccessfulBuildOnBranch:
		return branch == t.Branch
	default:
		return false
	}
}

// Environment is one deployment target.
type Environment struct {
	Name    string
	Tasks   []Task
	Trigger Trigger
}

// ReleaseNaming controls how deployment releases are named.
type ReleaseNaming struct {
	Pattern              string
	ApplicableToBranches bool
	AutoIncrement        bool
}

// DeploymentSpec is the deployment project published as one document.
type DeploymentSpec struct {
	SourcePlan    PlanRef
	Name          string
	Description   string
	ReleaseNaming ReleaseNaming
	Environments  []Environment
}

// EnvironmentNames returns the environment names in promotion order.
func (d DeploymentSpec) EnvironmentNames() []string {
	names := make([]string, len(d.Environments))
	for i, env := range d.Environments {
		names[i] = env.Name
	}
	return names
}
