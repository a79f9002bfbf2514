// Package catalog holds the read-only vendor templates (tasks, artifacts, repositories
// and environments) that harvester plans are assembled from. The default catalog is
// embedded in the binary and parsed once at start-up.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/gerdiproject/harvester-specs/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Repository is a repository template.
type Repository struct {
	Name                 string `yaml:"name"`
	ProjectKey           string `yaml:"project-key"`
	Slug                 string `yaml:"slug"`
	Branch               string `yaml:"branch"`
	FetchWholeRepository bool   `yaml:"fetch-whole-repository"`
	QuietPeriod          bool   `yaml:"quiet-period"`
}

// Repositories lists the repositories linked to every plan.
type Repositories struct {
	Server struct {
		Name string `yaml:"name"`
		ID   string `yaml:"id"`
	} `yaml:"server"`
	Harvester Repository `yaml:"harvester"`
	Scripts   Repository `yaml:"scripts"`
}

// Plan is the analysis plan template.
type Plan struct {
	Project     string `yaml:"project"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Stage       string `yaml:"stage"`
	Job         struct {
		Key  string `yaml:"key"`
		Name string `yaml:"name"`
	} `yaml:"job"`
	ConcurrentBuilds  int               `yaml:"concurrent-builds"`
	BranchCleanupDays int               `yaml:"branch-cleanup-days"`
	Tasks             []string          `yaml:"tasks"`
	Artifacts         []domain.Artifact `yaml:"artifacts"`
}

// Environment is a deployment environment template.
type Environment struct {
	Name    string `yaml:"name"`
	Trigger struct {
		Kind   domain.TriggerKind `yaml:"kind"`
		Branch string             `yaml:"branch"`
	} `yaml:"trigger"`
}

// Deployment is the deployment project template.
type Deployment struct {
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	ReleaseNaming string        `yaml:"release-naming"`
	Tasks         []string      `yaml:"tasks"`
	Environments  []Environment `yaml:"environments"`
}

// Catalog is the parsed template set. It must not be modified after loading.
type Catalog struct {
	Repositories Repositories           `yaml:"repositories"`
	Plan         Plan                   `yaml:"plan"`
	Deployment   Deployment             `yaml:"deployment"`
	Tasks        map[string]domain.Task `yaml:"tasks"`
}

// planTaskKinds is the analysis chain: harvester checkout, scripts checkout, strict
// build, version preparation and version export.
var planTaskKinds = []domain.TaskKind{
	domain.TaskCheckout,
	domain.TaskCheckout,
	domain.TaskMaven,
	domain.TaskScript,
	domain.TaskInjectVariables,
}

// deploymentTaskKinds is the chain every environment runs: clean workspace, download
// all artifacts, push the image, tag the repository.
var deploymentTaskKinds = []domain.TaskKind{
	domain.TaskCleanWorkspace,
	domain.TaskArtifactDownload,
	domain.TaskScript,
	domain.TaskScript,
}

// promotion lists the environments in order with the build that deploys to each.
var promotion = []struct {
	name   string
	kind   domain.TriggerKind
	branch string
}{
	{"Test", domain.TriggerAfterSuccessfulBuild, ""},
	{"Stage", domain.TriggerAfterSuccessfulBuildOnBranch, "stage"},
	{"Production", domain.TriggerAfterSuccessfulBuildOnBranch, "production"},
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load parses a catalog file, for installations that ship their own task scripts.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes and checks a catalog document.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// PlanTasks returns fresh copies of the analysis job's tasks in order.
func (c *Catalog) PlanTasks() []domain.Task {
	return c.tasks(c.Plan.Tasks)
}

// DeploymentTasks returns fresh copies of the task chain shared by all environments.
func (c *Catalog) DeploymentTasks() []domain.Task {
	return c.tasks(c.Deployment.Tasks)
}

// PlanArtifacts returns a copy of the artifacts declared by the analysis job.
func (c *Catalog) PlanArtifacts() []domain.Artifact {
	return append([]domain.Artifact(nil), c.Plan.Artifacts...)
}

func (c *Catalog) tasks(names []string) []domain.Task {
	out := make([]domain.Task, len(names))
	for i, name := range names {
		t := c.Tasks[name]
		t.Checkout = append([]domain.CheckoutItem(nil), t.Checkout...)
		out[i] = t
	}
	return out
}

func (c *Catalog) check() error {
	var errs []error
	for _, name := range append(append([]string(nil), c.Plan.Tasks...), c.Deployment.Tasks...) {
		if _, ok := c.Tasks[name]; !ok {
			errs = append(errs, fmt.Errorf("unknown task %q", name))
		}
	}
	for name, t := range c.Tasks {
		if t.Kind == "" {
			errs = append(errs, fmt.Errorf("task %q has no kind", name))
		}
	}
	for _, a := range c.Plan.Artifacts {
		if a.Name == "" || a.CopyPattern == "" {
			errs = append(errs, fmt.Errorf("artifact %q needs a name and a pattern", a.Name))
		}
		// environments download artifacts outside the job's workspace
		if !a.Shared {
			errs = append(errs, fmt.Errorf("artifact %q must be shared", a.Name))
		}
	}
	errs = append(errs, c.checkChain("plan", c.Plan.Tasks, planTaskKinds)...)
	errs = append(errs, c.checkChain("deployment", c.Deployment.Tasks, deploymentTaskKinds)...)
	for _, env := range c.Deployment.Environments {
		switch env.Trigger.Kind {
		case domain.TriggerAfterSuccessfulBuild, domain.TriggerManual:
		case domain.TriggerAfterSuccessfulBuildOnBranch:
			if env.Trigger.Branch == "" {
				errs = append(errs, fmt.Errorf("environment %q triggers on a branch but names none", env.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("environment %q has unknown trigger %q", env.Name, env.Trigger.Kind))
		}
	}
	if err := checkPromotion(c.Deployment.Environments); err != nil {
		errs = append(errs, err)
	}
	if c.Plan.Project == "" || c.Plan.Job.Key == "" {
		errs = append(errs, errors.New("plan project and job key are required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %w", multierr.Combine(errs...))
	}
	return nil
}

func (c *Catalog) checkChain(owner string, names []string, kinds []domain.TaskKind) []error {
	got := make([]domain.TaskKind, 0, len(names))
	for _, name := range names {
		if t, ok := c.Tasks[name]; ok {
			got = append(got, t.Kind)
		}
	}
	if len(got) != len(names) {
		// unknown tasks are reported on their own
		return nil
	}
	if len(got) != len(kinds) {
		return []error{fmt.Errorf("%s tasks must be %v, got %v", owner, kinds, got)}
	}
	for i := range kinds {
		if got[i] != kinds[i] {
			return []error{fmt.Errorf("%s tasks must be %v, got %v", owner, kinds, got)}
		}
	}
	return nil
}

func checkPromotion(envs []Environment) error {
	ok := len(envs) == len(promotion)
	for i := 0; ok && i < len(envs); i++ {
		want := promotion[i]
		ok = envs[i].Name == want.name && envs[i].Trigger.Kind == want.kind && envs[i].Trigger.Branch == want.branch
	}
	if ok {
		return nil
	}
	return errors.New("deployment environments must be Test (default branch), Stage (branch stage) and Production (branch production), in that order")
}
