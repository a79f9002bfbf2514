// Package naming derives CI identifiers from a provider id.
package naming

import (
	"strings"

	"github.com/gerdiproject/harvester-specs/internal/domain"
)

// DeriveKey drops every lower-case ASCII letter of providerID and appends projectCode:
// ("FaoStat", "HAR") yields "FSHAR". An all lower-case provider id leaves just the
// project code; callers are expected to use camel-case identifiers.
func DeriveKey(providerID, projectCode string) domain.PipelineKey {
	var sb strings.Builder
	sb.Grow(len(providerID) + len(projectCode))
	for _, r := range providerID {
		if r >= 'a' && r <= 'z' {
			continue
		}
		sb.WriteRune(r)
	}
	sb.WriteString(projectCode)
	return domain.PipelineKey(sb.String())
}

// DeriveName substitutes providerID for every "%s" in template.
func DeriveName(template, providerID string) string {
	return strings.ReplaceAll(template, "%s", providerID)
}
