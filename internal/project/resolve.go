package project

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jhunt/go-log"

	"github.com/gerdiproject/harvester-specs/internal/domain"
	"github.com/gerdiproject/harvester-specs/internal/git"
)

// Default locations inside a harvester repository.
const (
	DefaultSourceDir = "src/main/java/de/gerdiproject/harvest/harvester"
	DefaultManifest  = "pom.xml"
	DefaultVCSConfig = ".git/config"
)

// Options locate the inputs of the resolvers. Relative paths are taken from the
// project root.
type Options struct {
	SourceDir string
	Manifest  string
	VCSConfig string
	Runner    git.Runner
}

// Overrides are facts supplied by the caller. A non-empty override replaces the
// corresponding resolver, which is then not run at all.
type Overrides struct {
	RootPath        string
	ProviderID      string
	RepositorySlug  string
	DeveloperEmails []string
}

// Resolve gathers the project metadata, preferring overrides over repository
// inspection. Facts that cannot be determined are left empty.
func Resolve(ctx context.Context, opts Options, ov Overrides) domain.ProjectMetadata {
	opts = opts.withDefaults()

	meta := domain.ProjectMetadata{RootPath: ov.RootPath}
	if meta.RootPath == "" {
		meta.RootPath = git.ResolveProjectRoot(ctx, opts.Runner)
	}
	log.Infof("ProjectDirectory: %s", meta.RootPath)

	meta.ProviderID = ov.ProviderID
	if meta.ProviderID == "" {
		if id, ok := ResolveProviderID(within(meta.RootPath, opts.SourceDir)); ok {
			meta.ProviderID = id
		} else {
			log.Debugf("no harvester source file found in %s", within(meta.RootPath, opts.SourceDir))
		}
	}

	meta.RepositorySlug = normalizeSlug(ov.RepositorySlug)
	if meta.RepositorySlug == "" {
		if slug, ok := git.ResolveRepositorySlug(within(meta.RootPath, opts.VCSConfig)); ok {
			meta.RepositorySlug = slug
		} else {
			log.Debugf("no remote url found in %s", within(meta.RootPath, opts.VCSConfig))
		}
	}

	if len(ov.DeveloperEmails) > 0 {
		meta.DeveloperEmails = append([]string(nil), ov.DeveloperEmails...)
	} else {
		meta.DeveloperEmails = ResolveDeveloperEmails(within(meta.RootPath, opts.Manifest))
	}
	return meta
}

// SplitEmails splits a space-separated developer list.
func SplitEmails(list string) []string {
	return strings.Fields(list)
}

// normalizeSlug accepts either a bare slug or a remote URL ending in "<slug>.git".
func normalizeSlug(s string) string {
	if !strings.HasSuffix(s, ".git") {
		return s
	}
	if slug, ok := git.ParseSlug(s); ok {
		return slug
	}
	return s
}

func within(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func (o Options) withDefaults() Options {
	if o.SourceDir == "" {
		o.SourceDir = DefaultSourceDir
	}
	if o.Manifest == "" {
		o.Manifest = DefaultManifest
	}
	if o.VCSConfig == "" {
		o.VCSConfig = DefaultVCSConfig
	}
	if o.Runner == nil {
		o.Runner = git.ExecRunner{}
	}
	return o
}
