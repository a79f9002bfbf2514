package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	env "github.com/jhunt/go-envirotron"

	"github.com/gerdiproject/harvester-specs/internal/domain"
)

// ServerConfig holds the CI server connection.
type ServerConfig struct {
	URL            string `toml:"url"             env:"BAMBOO_URL"`
	User           string `toml:"user"            env:"BAMBOO_USER"`
	Password       string `toml:"password"        env:"BAMBOO_PASSWORD"`
	Retries        int    `toml:"retries"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ProjectConfig describes where repository facts are read from.
// Relative paths are resolved against the project root.
type ProjectConfig struct {
	Code               string `toml:"code"                 env:"HARVESTER_PROJECT_CODE"`
	HarvesterSourceDir string `toml:"harvester_source_dir"`
	Manifest           string `toml:"manifest"`
	VCSConfig          string `toml:"vcs_config"`
	Catalog            string `toml:"catalog"`
}

// PermissionsConfig holds the rights developers receive on the plan.
type PermissionsConfig struct {
	PlanRights []string `toml:"plan_rights"`
}

// Config holds all harvester-specs configuration.
type Config struct {
	LogLevel    string            `toml:"log_level" env:"HARVESTER_SPECS_LOG_LEVEL"`
	Debug       bool              `toml:"-"         env:"HARVESTER_SPECS_DEBUG"`
	Server      ServerConfig      `toml:"server"`
	Project     ProjectConfig     `toml:"project"`
	Permissions PermissionsConfig `toml:"permissions"`
}

// Defaults returns the configuration used when no file or environment says otherwise.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			URL:            "https://ci.gerdi-project.de",
			Retries:        2,
			TimeoutSeconds: 30,
		},
		Project: ProjectConfig{
			Code:               "HAR",
			HarvesterSourceDir: "src/main/java/de/gerdiproject/harvest/harvester",
			Manifest:           "pom.xml",
			VCSConfig:          ".git/config",
		},
		Permissions: PermissionsConfig{
			PlanRights: []string{"VIEW", "CLONE"},
		},
	}
}

// LoadFrom reads configuration from the given TOML file path on top of Defaults.
// If the file does not exist, the defaults are used without error.
// Environment variables always take precedence over file values:
//   - BAMBOO_URL, BAMBOO_USER, BAMBOO_PASSWORD override [server]
//   - HARVESTER_PROJECT_CODE overrides project.code
//   - HARVESTER_SPECS_LOG_LEVEL overrides log_level
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	env.Override(&cfg)
	return cfg, nil
}

// DefaultConfigPath returns the default path for the harvester-specs config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "harvester-specs", "config.toml")
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.Server.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// PlanRights parses permissions.plan_rights.
func (c Config) PlanRights() ([]domain.Right, error) {
	rights := make([]domain.Right, 0, len(c.Permissions.PlanRights))
	for _, s := range c.Permissions.PlanRights {
		r, err := domain.ParseRight(s)
		if err != nil {
			return nil, fmt.Errorf("permissions.plan_rights: %w", err)
		}
		rights = append(rights, r)
	}
	if len(rights) == 0 {
		return nil, fmt.Errorf("permissions.plan_rights must not be empty")
	}
	return rights, nil
}
