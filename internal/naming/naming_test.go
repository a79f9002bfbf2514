package naming_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gerdiproject/harvester-specs/internal/domain"
	"github.com/gerdiproject/harvester-specs/internal/naming"
)

func TestDeriveKey(t *testing.T) {
	cases := []struct {
		providerID, project string
		want                domain.PipelineKey
	}{
		{"FaoStat", "HAR", "FSHAR"},
		{"abc", "HAR", "HAR"},
		{"SeaDataNet", "HAR", "SDNHAR"},
		{"OAIPMH", "HAR", "OAIPMHHAR"},
		{"Zenodo2", "HAR", "Z2HAR"},
		{"", "HAR", "HAR"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, naming.DeriveKey(c.providerID, c.project), "%s + %s", c.providerID, c.project)
	}
}

func TestDeriveKey_IsDeterministic(t *testing.T) {
	first := naming.DeriveKey("FaoStat", "HAR")
	second := naming.DeriveKey("FaoStat", "HAR")
	assert.Equal(t, first, second)
}

func TestDeriveName(t *testing.T) {
	assert.Equal(t, "FaoStat-Harvester Static Analysis", naming.DeriveName("%s-Harvester Static Analysis", "FaoStat"))
	assert.Equal(t, "Static Analysis of the FaoStat-Harvester.", naming.DeriveName("Static Analysis of the %s-Harvester.", "FaoStat"))
	assert.Equal(t, "fixed", naming.DeriveName("fixed", "FaoStat"))
}
