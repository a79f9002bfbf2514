package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	fmt "github.com/jhunt/go-ansi"
	"github.com/jhunt/go-cli"
	env "github.com/jhunt/go-envirotron"
	"github.com/jhunt/go-log"
	"go.uber.org/multierr"

	"github.com/gerdiproject/harvester-specs/internal/catalog"
	"github.com/gerdiproject/harvester-specs/internal/config"
	"github.com/gerdiproject/harvester-specs/internal/domain"
	"github.com/gerdiproject/harvester-specs/internal/git"
	"github.com/gerdiproject/harvester-specs/internal/project"
	"github.com/gerdiproject/harvester-specs/internal/publish"
	"github.com/gerdiproject/harvester-specs/internal/server"
	"github.com/gerdiproject/harvester-specs/internal/server/bamboo"
	"github.com/gerdiproject/harvester-specs/internal/topology"
	"github.com/gerdiproject/harvester-specs/internal/tui"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = ""

const (
	exitOK = iota
	exitUsage
	exitPublish
	exitAborted
)

const retryBackoff = time.Second

type Options struct {
	Help    bool   `cli:"-h, --help"`
	Version bool   `cli:"-v, --version"`
	Debug   bool   `cli:"-D, --debug"   env:"HARVESTER_SPECS_DEBUG"`
	Config  string `cli:"-c, --config"  env:"HARVESTER_SPECS_CONFIG"`

	User     string `cli:"-u, --user"`
	Password string `cli:"-p, --password"`
	Server   string `cli:"--server"`

	Directory  string `cli:"-C, --directory"`
	Provider   string `cli:"--provider"`
	Project    string `cli:"--project"`
	Slug       string `cli:"--slug"`
	Developers string `cli:"--developers"`

	DryRun bool `cli:"-n, --dry-run"`
	Yes    bool `cli:"-y, --yes"`
}

func main() {
	var opt Options
	env.Override(&opt)

	_, args, err := cli.Parse(&opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "@R{%s}\n", err)
		os.Exit(exitUsage)
	}
	if opt.Help {
		usage(os.Stdout)
		os.Exit(exitOK)
	}
	if opt.Version {
		if Version == "" {
			fmt.Printf("harvester-specs (development)\n")
		} else {
			fmt.Printf("harvester-specs v%s\n", Version)
		}
		os.Exit(exitOK)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, opt, args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `USAGE: @G{harvester-specs} [OPTIONS] [user password provider project slug "emails"]

Publishes the static analysis plan, the deployment project and the developer
permissions of the harvester in the current repository to Bamboo.

@B{Options:}
  -h, --help        Show this help screen.
  -v, --version     Print the version and exit.
  -c, --config      Configuration file. (@W{$HARVESTER_SPECS_CONFIG})
  -D, --debug       Enable debugging output. (@W{$HARVESTER_SPECS_DEBUG})

  -u, --user        Bamboo user name. (@W{$BAMBOO_USER})
  -p, --password    Bamboo password. (@W{$BAMBOO_PASSWORD})
      --server      Bamboo base URL. (@W{$BAMBOO_URL})

  -C, --directory   Harvester project root, instead of asking git.
      --provider    Provider id, instead of the oldest *Harvester source file.
      --project     Project code appended to the plan key. (@W{$HARVESTER_PROJECT_CODE})
      --slug        Repository slug or remote URL, instead of .git/config.
      --developers  Space-separated developer emails, instead of pom.xml.

  -n, --dry-run     Print the documents as YAML instead of publishing them.
  -y, --yes         Publish without asking for confirmation.

@B{Exit codes:}
  0  published (failed permission grants are only reported)
  1  usage, configuration or missing repository facts
  2  the plan or deployment project could not be published
  3  aborted at the confirmation screen
`)
}

// applyPositional fills options that were not given as flags from the positional
// arguments user, password, provider, project, slug and emails, in that order.
func applyPositional(opt *Options, args []string) error {
	targets := []*string{&opt.User, &opt.Password, &opt.Provider, &opt.Project, &opt.Slug, &opt.Developers}
	if len(args) > len(targets) {
		return fmt.Errorf("too many arguments: expected at most %d, got %d", len(targets), len(args))
	}
	for i, arg := range args {
		if *targets[i] == "" {
			*targets[i] = arg
		}
	}
	return nil
}

func setupLogging(level string, toStderr bool) {
	if toStderr {
		log.SetupLogging(log.LogConfig{Type: "file", File: "/dev/stderr", Level: level})
		return
	}
	log.SetupLogging(log.LogConfig{Type: "console", Level: level})
}

func run(ctx context.Context, opt Options, args []string, stdin *os.File, stdout, stderr io.Writer) int {
	fail := func(code int, err error) int {
		fmt.Fprintf(stderr, "@R{%s}\n", err)
		return code
	}

	if err := applyPositional(&opt, args); err != nil {
		return fail(exitUsage, err)
	}

	configPath := opt.Config
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fail(exitUsage, fmt.Errorf("error loading config: %s", err))
	}
	if opt.User != "" {
		cfg.Server.User = opt.User
	}
	if opt.Password != "" {
		cfg.Server.Password = opt.Password
	}
	if opt.Server != "" {
		cfg.Server.URL = opt.Server
	}
	if opt.Project != "" {
		cfg.Project.Code = opt.Project
	}
	cfg.Project.Code = strings.ToUpper(cfg.Project.Code)

	level := cfg.LogLevel
	if opt.Debug || cfg.Debug {
		level = "debug"
	}
	setupLogging(level, opt.DryRun)

	cat, err := loadCatalog(cfg.Project.Catalog)
	if err != nil {
		return fail(exitUsage, err)
	}
	planRights, err := cfg.PlanRights()
	if err != nil {
		return fail(exitUsage, err)
	}

	root := opt.Directory
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	meta := project.Resolve(ctx, project.Options{
		SourceDir: cfg.Project.HarvesterSourceDir,
		Manifest:  cfg.Project.Manifest,
		VCSConfig: cfg.Project.VCSConfig,
		Runner:    git.ExecRunner{},
	}, project.Overrides{
		RootPath:        root,
		ProviderID:      opt.Provider,
		RepositorySlug:  opt.Slug,
		DeveloperEmails: project.SplitEmails(opt.Developers),
	})
	log.Infof("ProviderClassName: %s", meta.ProviderID)
	log.Infof("RepositorySlug: %s", meta.RepositorySlug)
	log.Infof("DeveloperEmails: %s", strings.Join(meta.DeveloperEmails, " "))

	plan, deployment, err := topology.Build(cat, meta, cfg.Project.Code)
	if err != nil {
		return fail(exitUsage, err)
	}
	log.Infof("BambooKey: %s", plan.Key)

	var target domain.SpecServer
	if opt.DryRun {
		printer := bamboo.NewPrinter(stdout)
		defer printer.Close()
		target = printer
	} else {
		if cfg.Server.User == "" || cfg.Server.Password == "" {
			return fail(exitUsage, fmt.Errorf("no Bamboo credentials: pass --user and --password or set BAMBOO_USER and BAMBOO_PASSWORD"))
		}
		adapter := bamboo.NewAdapter(cfg.Server.URL, cfg.Server.User, cfg.Server.Password, cfg.Timeout())
		log.Debugf("X-Request-Id: %s", adapter.RequestID())
		target = server.NewRetryingServer(adapter, cfg.Server.Retries, retryBackoff)

		if !opt.Yes && tui.Interactive(stdin) {
			ok, err := tui.Confirm(tui.Summary{
				Server:       cfg.Server.URL,
				PlanKey:      plan.Ref().String(),
				PlanName:     plan.Name,
				Deployment:   deployment.Name,
				Environments: deployment.EnvironmentNames(),
				Developers:   meta.DeveloperEmails,
			}, stdin, stdout)
			if err != nil {
				return fail(exitUsage, err)
			}
			if !ok {
				fmt.Fprintf(stderr, "@Y{aborted}, nothing was published\n")
				return exitAborted
			}
		}
	}

	rights := publish.DefaultRights()
	rights.Plan = planRights
	report, err := publish.NewPublisher(target, rights).Run(ctx, plan, deployment, meta.DeveloperEmails)
	if err != nil {
		return fail(exitPublish, err)
	}

	if err := report.Grants.Err(); err != nil {
		log.Debugf("grant failures: %s", err)
		for _, subject := range report.Grants.FailedSubjects() {
			failed := multierr.Errors(report.Grants.SubjectErr(subject))
			fmt.Fprintf(stderr, "@Y{warning:} %d grants to %s failed, first: %s\n", len(failed), subject, failed[0])
		}
	}
	if !opt.DryRun {
		fmt.Fprintf(stderr, "@G{published} plan %s and deployment project %s (%d of %d grants)\n",
			report.Plan, report.Deployment,
			len(report.Grants.Granted), len(report.Grants.Granted)+len(report.Grants.Failures))
	}
	return exitOK
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}
