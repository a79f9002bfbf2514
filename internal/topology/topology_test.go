package topology_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerdiproject/harvester-specs/internal/catalog"
	"github.com/gerdiproject/harvester-specs/internal/domain"
	"github.com/gerdiproject/harvester-specs/internal/topology"
)

func faoStat() domain.ProjectMetadata {
	return domain.ProjectMetadata{
		RootPath:        "/work/faostat",
		ProviderID:      "FaoStat",
		RepositorySlug:  "faostat",
		DeveloperEmails: []string{"a@x.com"},
	}
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func TestValidate_ReportsMissingFact(t *testing.T) {
	cases := map[string]func(*domain.ProjectMetadata, *string){
		"provider id":     func(m *domain.ProjectMetadata, _ *string) { m.ProviderID = "" },
		"repository slug": func(m *domain.ProjectMetadata, _ *string) { m.RepositorySlug = "" },
		"project code":    func(_ *domain.ProjectMetadata, code *string) { *code = "" },
	}
	for fact, breakIt := range cases {
		meta, code := faoStat(), "HAR"
		breakIt(&meta, &code)

		err := topology.Validate(meta, code)
		require.Error(t, err, fact)
		assert.True(t, errors.Is(err, domain.ErrMissingFact))
		var verr *topology.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, fact, verr.Fact)
	}
}

func TestValidate_DevelopersAreOptional(t *testing.T) {
	meta := faoStat()
	meta.DeveloperEmails = nil
	assert.NoError(t, topology.Validate(meta, "HAR"))
}

func TestBuild_RejectsBeforeAssembling(t *testing.T) {
	meta := faoStat()
	meta.ProviderID = ""

	plan, deployment, err := topology.Build(defaultCatalog(t), meta, "HAR")
	require.Error(t, err)
	assert.Empty(t, plan.Key)
	assert.Empty(t, deployment.Name)
}

func TestBuildPipeline_Shape(t *testing.T) {
	plan := topology.BuildPipeline(defaultCatalog(t), faoStat(), "HAR")

	assert.Equal(t, "CA", plan.Project)
	assert.Equal(t, domain.PipelineKey("FSHAR"), plan.Key)
	assert.Equal(t, "FaoStat-Harvester Static Analysis", plan.Name)
	assert.Equal(t, 10, plan.ConcurrentBuilds)

	require.Len(t, plan.Stages, 1)
	require.Len(t, plan.Stages[0].Jobs, 1)
	job := plan.Stages[0].Jobs[0]
	assert.Equal(t, "JOB1", job.Key)

	var descriptions []string
	for _, task := range job.Tasks {
		descriptions = append(descriptions, task.Description)
	}
	assert.Equal(t, []string{
		"Checkout Harvester",
		"Checkout Bamboo Scripts",
		"Code Analysis",
		"Prepare Export of Version Variables",
		"Export Version Variables",
	}, descriptions)

	var artifacts []string
	for _, a := range job.Artifacts {
		artifacts = append(artifacts, a.Name)
		assert.True(t, a.Shared)
	}
	assert.Equal(t, []string{"warFile", "dockerfile", "scripts"}, artifacts)
}

func TestBuildPipeline_BranchPolicyAndTrigger(t *testing.T) {
	plan := topology.BuildPipeline(defaultCatalog(t), faoStat(), "HAR")

	assert.Equal(t, domain.BranchPolicy{
		Mode:             domain.BranchAutoCreateDeleteOnRemoval,
		DeleteAfterDays:  1,
		NotifyCommitters: true,
	}, plan.BranchPolicy)

	require.Len(t, plan.Repositories, 2)
	harvester, scripts := plan.Repositories[0], plan.Repositories[1]
	assert.Equal(t, "FaoStat-Harvester", harvester.Name)
	assert.Equal(t, "faostat", harvester.Slug)
	assert.Equal(t, "HAR", harvester.ProjectKey)
	assert.Equal(t, "bamboo-scripts", scripts.Slug)

	assert.Equal(t, []string{"FaoStat-Harvester"}, plan.Trigger.Repositories)
	assert.NotContains(t, plan.Trigger.Repositories, scripts.Name)
}

func TestBuildPipeline_IsDeterministic(t *testing.T) {
	cat := defaultCatalog(t)
	assert.Equal(t, topology.BuildPipeline(cat, faoStat(), "HAR"), topology.BuildPipeline(cat, faoStat(), "HAR"))
}

func TestBuildDeployment_ReferencesPlan(t *testing.T) {
	cat := defaultCatalog(t)
	plan := topology.BuildPipeline(cat, faoStat(), "HAR")

	d := topology.BuildDeployment(cat, plan, "FaoStat")

	assert.Equal(t, domain.PlanRef{ProjectKey: "CA", Key: "FSHAR"}, d.SourcePlan)
	assert.Equal(t, "FaoStat-Harvester", d.Name)
	assert.Equal(t, domain.ReleaseNaming{
		Pattern:              "${bamboo.inject.tag.version}",
		ApplicableToBranches: true,
	}, d.ReleaseNaming)
}

func TestBuildDeployment_EnvironmentsShareTasks(t *testing.T) {
	cat := defaultCatalog(t)
	d := topology.BuildDeployment(cat, topology.BuildPipeline(cat, faoStat(), "HAR"), "FaoStat")

	assert.Equal(t, []string{"Test", "Stage", "Production"}, d.EnvironmentNames())
	for _, env := range d.Environments {
		assert.Equal(t, d.Environments[0].Tasks, env.Tasks, env.Name)
		require.Len(t, env.Tasks, 4)
		assert.Equal(t, domain.TaskCleanWorkspace, env.Tasks[0].Kind)
		assert.Equal(t, domain.TaskArtifactDownload, env.Tasks[1].Kind)
		assert.True(t, env.Tasks[1].AllArtifacts)
	}

	d.Environments[0].Tasks[0].Description = "changed"
	assert.NotEqual(t, "changed", d.Environments[1].Tasks[0].Description)
}

func TestBuildDeployment_BranchScopedTriggers(t *testing.T) {
	cat := defaultCatalog(t)
	d := topology.BuildDeployment(cat, topology.BuildPipeline(cat, faoStat(), "HAR"), "FaoStat")
	defaultBranch := cat.Repositories.Harvester.Branch

	fires := func(env domain.Environment) []string {
		var branches []string
		for _, b := range []string{defaultBranch, "stage", "production", "feature/x"} {
			if env.Trigger.FiresFor(b, defaultBranch) {
				branches = append(branches, b)
			}
		}
		return branches
	}

	test, stage, production := d.Environments[0], d.Environments[1], d.Environments[2]
	assert.Equal(t, []string{"master"}, fires(test))
	assert.Equal(t, []string{"stage"}, fires(stage))
	assert.Equal(t, []string{"production"}, fires(production))
}
