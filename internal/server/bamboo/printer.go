package bamboo

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gerdiproject/harvester-specs/internal/domain"
)

// Printer is a SpecServer that writes every document it would publish to w as a
// YAML stream instead of calling the server.
type Printer struct {
	enc *yaml.Encoder
}

var _ domain.SpecServer = (*Printer)(nil)

// NewPrinter creates a Printer. Call Close to flush the stream.
func NewPrinter(w io.Writer) *Printer {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &Printer{enc: enc}
}

func (p *Printer) PublishPlan(_ context.Context, spec domain.PipelineSpec) error {
	return p.encode(toPlanDocument(spec))
}

func (p *Printer) PublishDeployment(_ context.Context, spec domain.DeploymentSpec) error {
	return p.encode(toDeploymentDocument(spec))
}

func (p *Printer) PublishPermission(_ context.Context, grant domain.PermissionGrant) error {
	if _, err := permissionPath(grant.Resource.Kind); err != nil {
		return err
	}
	return p.encode(toPermissionDocument(grant))
}

func (p *Printer) encode(doc interface{}) error {
	if err := p.enc.Encode(doc); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Close flushes the stream.
func (p *Printer) Close() error {
	return p.enc.Close()
}
