// Package topology assembles the analysis plan and deployment project of a harvester
// from resolved metadata and the vendor catalog.
package topology

import (
	"fmt"

	"github.com/gerdiproject/harvester-specs/internal/catalog"
	"github.com/gerdiproject/harvester-specs/internal/domain"
)

// ValidationError reports a fact that is required to build the topology but was
// neither resolved nor supplied.
type ValidationError struct {
	Fact string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s could not be determined; pass it explicitly", e.Fact)
}

// Unwrap lets callers match the error with errors.Is(err, domain.ErrMissingFact).
func (e *ValidationError) Unwrap() error {
	return domain.ErrMissingFact
}

// Validate checks that meta and projectCode carry everything the builders need.
// It must pass before BuildPipeline is called.
func Validate(meta domain.ProjectMetadata, projectCode string) error {
	switch {
	case meta.ProviderID == "":
		return &ValidationError{Fact: "provider id"}
	case meta.RepositorySlug == "":
		return &ValidationError{Fact: "repository slug"}
	case projectCode == "":
		return &ValidationError{Fact: "project code"}
	}
	return nil
}

// Build validates meta and assembles both the plan and its deployment project.
func Build(cat *catalog.Catalog, meta domain.ProjectMetadata, projectCode string) (domain.PipelineSpec, domain.DeploymentSpec, error) {
	if err := Validate(meta, projectCode); err != nil {
		return domain.PipelineSpec{}, domain.DeploymentSpec{}, err
	}
	plan := BuildPipeline(cat, meta, projectCode)
	return plan, BuildDeployment(cat, plan, meta.ProviderID), nil
}
