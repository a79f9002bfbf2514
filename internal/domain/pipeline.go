package domain

// PipelineKey identifies a plan on the CI server. It is derived deterministically from
// the provider id and the project code so that re-publishing upserts the same plan.
type PipelineKey string

// PlanRef points at a plan by its project key and plan key.
type PlanRef struct {
	ProjectKey string      `yaml:"project-key"`
	Key        PipelineKey `yaml:"key"`
}

// String renders the reference the way the CI server prints plan keys, e.g. "CA-FSHAR".
func (r PlanRef) String() string {
	return r.ProjectKey + "-" + string(r.Key)
}

// BranchMode selects how plan branches follow VCS branches.
type BranchMode string

const (
	BranchAutoCreateDeleteOnRemoval BranchMode = "auto-create-delete-on-removal"
	BranchManual                    BranchMode = "manual"
)

// BranchPolicy configures plan branch management.
type BranchPolicy struct {
	Mode             BranchMode
	DeleteAfterDays  int
	NotifyCommitters bool
}

// RepositoryRef describes a Bitbucket Server repository linked to a plan.
type RepositoryRef struct {
	Name                 string
	Server               ApplicationLink
	ProjectKey           string
	Slug                 string
	Branch               string
	FetchWholeRepository bool
	QuietPeriod          bool
}

// ApplicationLink identifies the Bitbucket Server instance known to the CI server.
type ApplicationLink struct {
	Name string
	ID   string
}

// PlanTrigger restricts which linked repositories start a build on push.
type PlanTrigger struct {
	Repositories []string
}

// TaskKind names the vendor task type.
type TaskKind string

const (
	TaskCheckout         TaskKind = "checkout"
	TaskMaven            TaskKind = "maven"
	TaskScript           TaskKind = "script"
	TaskInjectVariables  TaskKind = "inject-variables"
	TaskCleanWorkspace   TaskKind = "clean-workspace"
	TaskArtifactDownload TaskKind = "artifact-download"
)

// CheckoutItem is one repository checked out by a checkout task.
// An empty Repository means the plan's default repository.
type CheckoutItem struct {
	Repository string `yaml:"repository,omitempty"`
	Path       string `yaml:"path,omitempty"`
}

// Task is one step of a job or environment. Only the fields of its Kind are set.
type Task struct {
	Kind        TaskKind       `yaml:"kind"`
	Description string         `yaml:"description,omitempty"`
	Checkout    []CheckoutItem `yaml:"checkout,omitempty"`

	Goal       string `yaml:"goal,omitempty"`
	JDK        string `yaml:"jdk,omitempty"`
	Executable string `yaml:"executable,omitempty"`
	HasTests   bool   `yaml:"has-tests,omitempty"`
	WorkingDir string `yaml:"working-dir,omitempty"`

	File     string `yaml:"file,omitempty"`
	Argument string `yaml:"argument,omitempty"`

	Path      string `yaml:"path,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
	Scope     string `yaml:"scope,omitempty"`

	AllArtifacts bool `yaml:"all-artifacts,omitempty"`
}

// Artifact is a build output declared by a job.
type Artifact struct {
	Name        string `yaml:"name"`
	CopyPattern string `yaml:"pattern"`
	Location    string `yaml:"location,omitempty"`
	Shared      bool   `yaml:"shared"`
}

// Job holds an ordered task chain and the artifacts it produces.
type Job struct {
	Key         string
	Name        string
	Description string
	Tasks       []Task
	Artifacts   []Artifact
}

// Stage holds jobs that run in parallel.
type Stage struct {
	Name string
	Jobs []Job
}

// PipelineSpec is the analysis plan published as one document.
type PipelineSpec struct {
	Project          string
	Key              PipelineKey
	Name             string
	Description      string
	Repositories     []RepositoryRef
	Trigger          PlanTrigger
	Stages           []Stage
	BranchPolicy     BranchPolicy
	ConcurrentBuilds int
	Variables        map[string]string
}

// Ref returns the reference other documents use to point at this plan.
func (p PipelineSpec) Ref() PlanRef {
	return PlanRef{ProjectKey: p.Project, Key: p.Key}
}
