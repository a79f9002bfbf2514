// Package bamboo publishes plans, deployment projects and permissions to Atlassian
// Bamboo through its YAML import API.
package bamboo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhunt/go-log"
	"gopkg.in/yaml.v3"

	"github.com/gerdiproject/harvester-specs/internal/domain"
)

const (
	defaultBaseURL = "https://ci.gerdi-project.de"
	importPath     = "/rest/api/latest/import"
)

// Adapter implements domain.SpecServer for Bamboo.
type Adapter struct {
	baseURL   string
	user      string
	password  string
	requestID string
	client    *http.Client
}

var _ domain.SpecServer = (*Adapter)(nil)

// NewAdapter creates a Bamboo adapter.
// baseURL is used for testing; pass empty string to use the GeRDI CI server.
// Every request of one adapter carries the same X-Request-Id so a run can be traced
// in the server log.
func NewAdapter(baseURL, user, password string, timeout time.Duration) *Adapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{
		baseURL:   strings.TrimRight(baseURL, "/"),
		user:      user,
		password:  password,
		requestID: uuid.NewString(),
		client:    &http.Client{Timeout: timeout},
	}
}

// RequestID returns the correlation id sent with every request.
func (a *Adapter) RequestID() string {
	return a.requestID
}

func (a *Adapter) PublishPlan(ctx context.Context, spec domain.PipelineSpec) error {
	return a.post(ctx, "/plan", toPlanDocument(spec))
}

func (a *Adapter) PublishDeployment(ctx context.Context, spec domain.DeploymentSpec) error {
	return a.post(ctx, "/deployment", toDeploymentDocument(spec))
}

func (a *Adapter) PublishPermission(ctx context.Context, grant domain.PermissionGrant) error {
	path, err := permissionPath(grant.Resource.Kind)
	if err != nil {
		return err
	}
	return a.post(ctx, path, toPermissionDocument(grant))
}

func permissionPath(kind domain.ResourceKind) (string, error) {
	switch kind {
	case domain.ResourcePlan:
		return "/plan-permissions", nil
	case domain.ResourceDeployment:
		return "/deployment-permissions", nil
	case domain.ResourceEnvironment:
		return "/deployment-environment-permissions", nil
	}
	return "", fmt.Errorf("no permission endpoint for resource kind %q", kind)
}

func (a *Adapter) post(ctx context.Context, path string, doc interface{}) error {
	body, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	url := a.baseURL + importPath + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(a.user, a.password)
	req.Header.Set("Content-Type", "application/yaml")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", a.requestID)

	log.Debugf("POST %s (%d bytes)", url, len(body))
	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("bamboo API error: %v: %w", err, domain.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("bamboo API error: %s: %w", resp.Status, domain.ErrUnauthorized)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("bamboo API error: %s: %w", resp.Status, domain.ErrUnavailable)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("bamboo API error: %s%s", resp.Status, detail(resp.Body))
	}
	return nil
}

// detail returns the first line of an error response, if any.
func detail(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	line, _, _ := strings.Cut(strings.TrimSpace(string(b)), "\n")
	if line == "" {
		return ""
	}
	return ": " + line
}
