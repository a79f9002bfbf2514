package topology

import (
	"github.com/gerdiproject/harvester-specs/internal/catalog"
	"github.com/gerdiproject/harvester-specs/internal/domain"
	"github.com/gerdiproject/harvester-specs/internal/naming"
)

// BuildPipeline assembles the static analysis plan. meta must have passed Validate.
func BuildPipeline(cat *catalog.Catalog, meta domain.ProjectMetadata, projectCode string) domain.PipelineSpec {
	tpl := cat.Plan
	harvester := HarvesterRepository(cat, meta)
	scripts := repository(cat, cat.Repositories.Scripts, cat.Repositories.Scripts.Slug)

	return domain.PipelineSpec{
		Project:      tpl.Project,
		Key:          naming.DeriveKey(meta.ProviderID, projectCode),
		Name:         naming.DeriveName(tpl.Name, meta.ProviderID),
		Description:  naming.DeriveName(tpl.Description, meta.ProviderID),
		Repositories: []domain.RepositoryRef{harvester, scripts},
		// pushes to the scripts repository must not rebuild every harvester
		Trigger: domain.PlanTrigger{Repositories: []string{harvester.Name}},
		Stages: []domain.Stage{{
			Name: tpl.Stage,
			Jobs: []domain.Job{{
				Key:       tpl.Job.Key,
				Name:      tpl.Job.Name,
				Tasks:     cat.PlanTasks(),
				Artifacts: cat.PlanArtifacts(),
			}},
		}},
		BranchPolicy: domain.BranchPolicy{
			Mode:             domain.BranchAutoCreateDeleteOnRemoval,
			DeleteAfterDays:  tpl.BranchCleanupDays,
			NotifyCommitters: true,
		},
		ConcurrentBuilds: tpl.ConcurrentBuilds,
		Variables:        map[string]string{},
	}
}

// HarvesterRepository returns the Bitbucket repository of the harvester itself.
func HarvesterRepository(cat *catalog.Catalog, meta domain.ProjectMetadata) domain.RepositoryRef {
	r := repository(cat, cat.Repositories.Harvester, meta.RepositorySlug)
	r.Name = naming.DeriveName(r.Name, meta.ProviderID)
	return r
}

func repository(cat *catalog.Catalog, tpl catalog.Repository, slug string) domain.RepositoryRef {
	return domain.RepositoryRef{
		Name: tpl.Name,
		Server: domain.ApplicationLink{
			Name: cat.Repositories.Server.Name,
			ID:   cat.Repositories.Server.ID,
		},
		ProjectKey:           tpl.ProjectKey,
		Slug:                 slug,
		Branch:               tpl.Branch,
		FetchWholeRepository: tpl.FetchWholeRepository,
		QuietPeriod:          tpl.QuietPeriod,
	}
}
