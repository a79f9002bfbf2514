package bamboo

import (
	"github.com/gerdiproject/harvester-specs/internal/domain"
)

const specsVersion = 2

// planDocument is the YAML body of an import/plan call.
type planDocument struct {
	Version      int                  `yaml:"version"`
	Plan         planHeader           `yaml:"plan"`
	Repositories []repositoryDocument `yaml:"repositories"`
	Triggers     []triggerDocument    `yaml:"triggers,omitempty"`
	Stages       []stageDocument      `yaml:"stages"`
	Branches     branchesDocument     `yaml:"branches"`
	Other        otherDocument        `yaml:"other"`
	Variables    map[string]string    `yaml:"variables,omitempty"`
}

type planHeader struct {
	ProjectKey  string `yaml:"project-key"`
	Key         string `yaml:"key"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type repositoryDocument struct {
	Name                 string `yaml:"name"`
	Type                 string `yaml:"type"`
	Server               string `yaml:"server"`
	ServerID             string `yaml:"server-id"`
	Project              string `yaml:"project"`
	Slug                 string `yaml:"slug"`
	Branch               string `yaml:"branch"`
	FetchWholeRepository bool   `yaml:"fetch-whole-repository"`
	QuietPeriod          bool   `yaml:"quiet-period"`
}

type triggerDocument struct {
	Type         string   `yaml:"type"`
	Repositories []string `yaml:"repositories,omitempty"`
	Branch       string   `yaml:"branch,omitempty"`
}

type stageDocument struct {
	Name string        `yaml:"name"`
	Jobs []jobDocument `yaml:"jobs"`
}

type jobDocument struct {
	Key         string            `yaml:"key"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Tasks       []taskDocument    `yaml:"tasks"`
	Artifacts   []domain.Artifact `yaml:"artifacts,omitempty"`
}

// taskDocument renders a task as a single-key mapping from its kind to its settings.
type taskDocument map[domain.TaskKind]taskBody

type taskBody struct {
	Description  string                `yaml:"description,omitempty"`
	Repositories []domain.CheckoutItem `yaml:"repositories,omitempty"`
	Goal         string                `yaml:"goal,omitempty"`
	JDK          string                `yaml:"jdk,omitempty"`
	Executable   string                `yaml:"executable,omitempty"`
	HasTests     bool                  `yaml:"has-tests,omitempty"`
	WorkingDir   string                `yaml:"working-dir,omitempty"`
	File         string                `yaml:"file,omitempty"`
	Argument     string                `yaml:"argument,omitempty"`
	Path         string                `yaml:"path,omitempty"`
	Namespace    string                `yaml:"namespace,omitempty"`
	Scope        string                `yaml:"scope,omitempty"`
	AllArtifacts bool                  `yaml:"all-artifacts,omitempty"`
}

type branchesDocument struct {
	Create          string `yaml:"create"`
	Delete          string `yaml:"delete"`
	DeleteAfterDays int    `yaml:"delete-after-days,omitempty"`
	Notifications   string `yaml:"notifications,omitempty"`
}

type otherDocument struct {
	ConcurrentBuilds int `yaml:"concurrent-build-plugin"`
}

func toPlanDocument(spec domain.PipelineSpec) planDocument {
	doc := planDocument{
		Version: specsVersion,
		Plan: planHeader{
			ProjectKey:  spec.Project,
			Key:         string(spec.Key),
			Name:        spec.Name,
			Description: spec.Description,
		},
		Repositories: make([]repositoryDocument, len(spec.Repositories)),
		Stages:       make([]stageDocument, len(spec.Stages)),
		Branches:     toBranchesDocument(spec.BranchPolicy),
		Other:        otherDocument{ConcurrentBuilds: spec.ConcurrentBuilds},
		Variables:    spec.Variables,
	}
	for i, r := range spec.Repositories {
		doc.Repositories[i] = toRepositoryDocument(r)
	}
	if len(spec.Trigger.Repositories) > 0 {
		doc.Triggers = []triggerDocument{{Type: "bitbucket-server-trigger", Repositories: spec.Trigger.Repositories}}
	}
	for i, s := range spec.Stages {
		stage := stageDocument{Name: s.Name, Jobs: make([]jobDocument, len(s.Jobs))}
		for j, job := range s.Jobs {
			stage.Jobs[j] = jobDocument{
				Key:         job.Key,
				Name:        job.Name,
				Description: job.Description,
				Tasks:       toTaskDocuments(job.Tasks),
				Artifacts:   job.Artifacts,
			}
		}
		doc.Stages[i] = stage
	}
	return doc
}

func toRepositoryDocument(r domain.RepositoryRef) repositoryDocument {
	return repositoryDocument{
		Name:                 r.Name,
		Type:                 "bitbucket-server",
		Server:               r.Server.Name,
		ServerID:             r.Server.ID,
		Project:              r.ProjectKey,
		Slug:                 r.Slug,
		Branch:               r.Branch,
		FetchWholeRepository: r.FetchWholeRepository,
		QuietPeriod:          r.QuietPeriod,
	}
}

func toBranchesDocument(p domain.BranchPolicy) branchesDocument {
	doc := branchesDocument{Create: "manually", Delete: "never"}
	if p.Mode == domain.BranchAutoCreateDeleteOnRemoval {
		doc.Create = "for-new-branch"
		doc.Delete = "after-deleted-days"
		doc.DeleteAfterDays = p.DeleteAfterDays
	}
	if p.NotifyCommitters {
		doc.Notifications = "committers"
	}
	return doc
}

func toTaskDocuments(tasks []domain.Task) []taskDocument {
	docs := make([]taskDocument, len(tasks))
	for i, t := range tasks {
		docs[i] = taskDocument{t.Kind: {
			Description:  t.Description,
			Repositories: t.Checkout,
			Goal:         t.Goal,
			JDK:          t.JDK,
			Executable:   t.Executable,
			HasTests:     t.HasTests,
			WorkingDir:   t.WorkingDir,
			File:         t.File,
			Argument:     t.Argument,
			Path:         t.Path,
			Namespace:    t.Namespace,
			Scope:        t.Scope,
			AllArtifacts: t.AllArtifacts,
		}}
	}
	return docs
}

// deploymentDocument is the YAML body of an import/deployment call.
type deploymentDocument struct {
	Version       int                   `yaml:"version"`
	Deployment    deploymentHeader      `yaml:"deployment"`
	ReleaseNaming releaseNamingDocument `yaml:"release-naming"`
	Environments  []environmentDocument `yaml:"environments"`
}

type deploymentHeader struct {
	Name        string `yaml:"name"`
	SourcePlan  string `yaml:"source-plan,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type releaseNamingDocument struct {
	Next                 string `yaml:"next-version-name"`
	ApplicableToBranches bool   `yaml:"applies-to-branches"`
	AutoIncrement        bool   `yaml:"auto-increment"`
}

type environmentDocument struct {
	Name     string            `yaml:"name"`
	Triggers []triggerDocument `yaml:"triggers,omitempty"`
	Tasks    []taskDocument    `yaml:"tasks"`
}

func toDeploymentDocument(spec domain.DeploymentSpec) deploymentDocument {
	doc := deploymentDocument{
		Version: specsVersion,
		Deployment: deploymentHeader{
			Name:        spec.Name,
			SourcePlan:  spec.SourcePlan.String(),
			Description: spec.Description,
		},
		ReleaseNaming: releaseNamingDocument{
			Next:                 spec.ReleaseNaming.Pattern,
			ApplicableToBranches: spec.ReleaseNaming.ApplicableToBranches,
			AutoIncrement:        spec.ReleaseNaming.AutoIncrement,
		},
		Environments: make([]environmentDocument, len(spec.Environments)),
	}
	for i, env := range spec.Environments {
		doc.Environments[i] = environmentDocument{
			Name:     env.Name,
			Triggers: toEnvironmentTriggers(env.Trigger),
			Tasks:    toTaskDocuments(env.Tasks),
		}
	}
	return doc
}

func toEnvironmentTriggers(t domain.Trigger) []triggerDocument {
	switch t.Kind {
	case domain.TriggerAfterSuccessfulBuild:
		return []triggerDocument{{Type: "build-success"}}
	case domain.TriggerAfterSuccessfulBuildOnBranch:
		return []triggerDocument{{Type: "build-success", Branch: t.Branch}}
	}
	return nil
}

// permissionDocument is the YAML body of the three import/*-permissions calls.
type permissionDocument struct {
	Version     int               `yaml:"version"`
	Plan        *planHeader       `yaml:"plan,omitempty"`
	Deployment  *deploymentHeader `yaml:"deployment,omitempty"`
	Environment string            `yaml:"environment,omitempty"`
	Permissions permissionsBlock  `yaml:"permissions"`
}

type permissionsBlock struct {
	Users         []userPermission `yaml:"users"`
	LoggedInUsers []domain.Right   `yaml:"logged-in-users,omitempty"`
	Anonymous     []domain.Right   `yaml:"anonymous-users,omitempty"`
}

type userPermission struct {
	Name   string         `yaml:"name"`
	Rights []domain.Right `yaml:"rights"`
}

func toPermissionDocument(g domain.PermissionGrant) permissionDocument {
	doc := permissionDocument{
		Version: specsVersion,
		Permissions: permissionsBlock{
			Users:         []userPermission{{Name: g.Subject, Rights: g.Rights}},
			LoggedInUsers: g.LoggedInRights,
		},
	}
	if g.AnonymousView {
		doc.Permissions.Anonymous = []domain.Right{domain.RightView}
	}
	switch g.Resource.Kind {
	case domain.ResourcePlan:
		doc.Plan = &planHeader{ProjectKey: g.Resource.Plan.ProjectKey, Key: string(g.Resource.Plan.Key)}
	case domain.ResourceDeployment:
		doc.Deployment = &deploymentHeader{Name: g.Resource.Deployment}
	case domain.ResourceEnvironment:
		doc.Deployment = &deploymentHeader{Name: g.Resource.Deployment}
		doc.Environment = g.Resource.Environment
	}
	return doc
}
