package topology

import (
	"github.com/gerdiproject/harvester-specs/internal/catalog"
	"github.com/gerdiproject/harvester-specs/internal/domain"
	"github.com/gerdiproject/harvester-specs/internal/naming"
)

// BuildDeployment assembles the deployment project of plan. The project refers to the
// plan by key, so artifacts changed on the plan flow to the deployment unchanged.
// Every environment runs the same task chain and differs only in its trigger.
func BuildDeployment(cat *catalog.Catalog, plan domain.PipelineSpec, providerID string) domain.DeploymentSpec {
	tpl := cat.Deployment

	envs := make([]domain.Environment, len(tpl.Environments))
	for i, e := range tpl.Environments {
		envs[i] = domain.Environment{
			Name:    e.Name,
			Tasks:   cat.DeploymentTasks(),
			Trigger: domain.Trigger{Kind: e.Trigger.Kind, Branch: e.Trigger.Branch},
		}
	}

	return domain.DeploymentSpec{
		SourcePlan:  plan.Ref(),
		Name:        naming.DeriveName(tpl.Name, providerID),
		Description: naming.DeriveName(tpl.Description, providerID),
		ReleaseNaming: domain.ReleaseNaming{
			Pattern:              tpl.ReleaseNaming,
			ApplicableToBranches: true,
			AutoIncrement:        false,
		},
		Environments: envs,
	}
}
