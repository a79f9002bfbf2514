package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gerdiproject/harvester-specs/internal/domain"
)

func TestTrigger_FiresFor(t *testing.T) {
	onDefault := domain.Trigger{Kind: domain.TriggerAfterSuccessfulBuild}
	onStage := domain.Trigger{Kind: domain.TriggerAfterSuccessfulBuildOnBranch, Branch: "stage"}
	manual := domain.Trigger{Kind: domain.TriggerManual}

	assert.True(t, onDefault.FiresFor("master", "master"))
	assert.False(t, onDefault.FiresFor("stage", "master"))

	assert.True(t, onStage.FiresFor("stage", "master"))
	assert.False(t, onStage.FiresFor("master", "master"))
	assert.False(t, onStage.FiresFor("production", "master"))

	assert.False(t, manual.FiresFor("master", "master"))
}

func TestResourceRef_String(t *testing.T) {
	plan := domain.ResourceRef{Kind: domain.ResourcePlan, Plan: domain.PlanRef{ProjectKey: "CA", Key: "FSHAR"}}
	env := domain.ResourceRef{Kind: domain.ResourceEnvironment, Deployment: "FaoStat-Harvester", Environment: "Stage"}

	assert.Equal(t, "plan CA-FSHAR", plan.String())
	assert.Equal(t, "environment FaoStat-Harvester/Stage", env.String())
}

func TestParseRight(t *testing.T) {
	r, err := domain.ParseRight("CLONE")
	assert.NoError(t, err)
	assert.Equal(t, domain.RightClone, r)

	_, err = domain.ParseRight("clone")
	assert.Error(t, err)
}
