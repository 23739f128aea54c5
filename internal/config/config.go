package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// Status policies accepted by StatusPolicy.
const (
	StatusPolicySecond = "second"
	StatusPolicyFirst  = "first"
)

// Config holds tracker, GitHub and per-repository workflow settings.
type Config struct {
	Aha          AhaConfig    `yaml:"aha"                     mapstructure:"aha"`
	GitHub       GitHubConfig `yaml:"github"                  mapstructure:"github"`
	Repos        []RepoConfig `yaml:"repos,omitempty"         mapstructure:"repos"`
	StatusPolicy string       `yaml:"status_policy,omitempty" mapstructure:"status_policy"`
	Keys         KeysConfig   `yaml:"keys,omitempty"          mapstructure:"keys"`
}

// KeysConfig remaps the browser's navigation keys. Each entry lists key
// names as bubbletea reports them ("k", "up", "ctrl+n"); an empty entry
// keeps the default binding.
type KeysConfig struct {
	Up     []string `yaml:"up,omitempty"     mapstructure:"up"`
	Down   []string `yaml:"down,omitempty"   mapstructure:"down"`
	Back   []string `yaml:"back,omitempty"   mapstructure:"back"`
	Enter  []string `yaml:"enter,omitempty"  mapstructure:"enter"`
	Search []string `yaml:"search,omitempty" mapstructure:"search"`
	Create []string `yaml:"create,omitempty" mapstructure:"create"`
	Quit   []string `yaml:"quit,omitempty"   mapstructure:"quit"`
}

// AhaConfig holds the tracker connection settings. Email is the workflow
// user that reconciled records get assigned to.
type AhaConfig struct {
	Domain string `yaml:"domain" mapstructure:"domain"`
	Token  string `yaml:"token"  mapstructure:"token"`
	Email  string `yaml:"email"  mapstructure:"email"`
}

// GitHubConfig holds the code-hosting credentials.
type GitHubConfig struct {
	Token string `yaml:"token"          mapstructure:"token"`
	Login string `yaml:"login"          mapstructure:"login"`
	Repo  string `yaml:"repo,omitempty" mapstructure:"repo"`
}

// RepoConfig configures one repository for sync. Labels maps a PR label
// to the workflow status it should move the record into.
type RepoConfig struct {
	Name     string            `yaml:"name"             mapstructure:"name"`
	Username string            `yaml:"username"         mapstructure:"username"`
	Labels   map[string]string `yaml:"labels,omitempty" mapstructure:"labels"`
}

// DefaultPath returns the default config file path (~/.aha-cli.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aha-cli.yaml"
	}
	return filepath.Join(home, ".aha-cli.yaml")
}

// DotEnvPath returns the path of the optional dotenv file (~/.env).
func DotEnvPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".env"
	}
	return filepath.Join(home, ".env")
}

// LoadDotEnv exports variables from a dotenv file into the process
// environment. Variables that are already set win. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.BindEnv("aha.domain", "AHA_DOMAIN")
	v.BindEnv("aha.token", "AHA_TOKEN")
	v.BindEnv("aha.email", "WORKFLOW_EMAIL")
	v.BindEnv("github.token", "GITHUB_API_TOKEN")
	v.BindEnv("github.login", "WORKFLOW_LOGIN")
	v.BindEnv("github.repo", "WORKFLOW_REPO")
	v.SetDefault("status_policy", StatusPolicySecond)

	// Only a missing file is tolerated so env vars alone still work.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the tracker settings are present. GitHub settings
// are checked separately by the commands that need them.
func (c Config) Validate() error {
	if c.Aha.Domain == "" {
		return fmt.Errorf("aha domain is required (set in config file or AHA_DOMAIN env var)")
	}
	if c.Aha.Token == "" {
		return fmt.Errorf("aha token is required (set in config file or AHA_TOKEN env var)")
	}
	switch c.StatusPolicy {
	case "", StatusPolicySecond, StatusPolicyFirst:
	default:
		return fmt.Errorf("status_policy must be %q or %q, got %q", StatusPolicySecond, StatusPolicyFirst, c.StatusPolicy)
	}
	return nil
}

// ValidateGitHub checks the settings needed to query pull requests.
func (c Config) ValidateGitHub() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("github token is required (set in config file or GITHUB_API_TOKEN env var)")
	}
	if c.GitHub.Login == "" {
		return fmt.Errorf("github login is required (set in config file or WORKFLOW_LOGIN env var)")
	}
	if c.Aha.Email == "" {
		return fmt.Errorf("workflow email is required (set in config file or WORKFLOW_EMAIL env var)")
	}
	return nil
}

// ReposFor returns the repositories to sync. A non-empty override selects
// one repository: its configured entry when there is one, otherwise an
// entry authored by the GitHub login with no label overrides.
func (c Config) ReposFor(override string) []RepoConfig {
	if override == "" {
		override = c.GitHub.Repo
	}
	if override == "" {
		return c.Repos
	}
	for _, repo := range c.Repos {
		if repo.Name == override {
			return []RepoConfig{repo}
		}
	}
	return []RepoConfig{{Name: override, Username: c.GitHub.Login}}
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
