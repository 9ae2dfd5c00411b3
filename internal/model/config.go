package model

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default issue type names. Tests are created as "Test Set" issues as well,
// matching the behaviour existing Jira projects were populated with; set
// issue_types.test to "Test" to change it.
const (
	DefaultTestSetIssueType = "Test Set"
	DefaultTestIssueType    = "Test Set"
	DefaultTimeout          = 30 * time.Second
)

// IssueTypesConfig names the Jira issue types used when creating issues.
type IssueTypesConfig struct {
	TestSet string `mapstructure:"test_set" yaml:"test_set"`
	Test    string `mapstructure:"test" yaml:"test"`
}

// AppConfig is the resolved configuration for a sync run.
type AppConfig struct {
	// Server is the root URL of the Jira instance.
	Server string `mapstructure:"server" yaml:"server"`

	// User and Password are used for HTTP Basic authentication. Password
	// may be an API token.
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"-"`

	// Project is the key of the Jira project issues are created in.
	Project string `mapstructure:"project" yaml:"project"`

	// Root is the directory holding the test-set manifest.
	Root string `mapstructure:"root" yaml:"root"`

	IssueTypes IssueTypesConfig `mapstructure:"issue_types" yaml:"issue_types"`

	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// envBindings maps config keys to the environment variables they are read from.
var envBindings = map[string]string{
	"server":   "JIRA_SERVER",
	"user":     "JIRA_USER",
	"password": "JIRA_PASS",
	"project":  "JIRA_PROJECT",
	"root":     "XRAYSYNC_ROOT",
	"timeout":  "XRAYSYNC_TIMEOUT",
}

// NewViper returns a Viper instance with defaults and environment bindings
// applied. Callers bind CLI flags onto it before calling LoadConfig.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("root", ".")
	v.SetDefault("issue_types.test_set", DefaultTestSetIssueType)
	v.SetDefault("issue_types.test", DefaultTestIssueType)
	v.SetDefault("timeout", DefaultTimeout)

	for key, env := range envBindings {
		// BindEnv only errors when called without arguments.
		_ = v.BindEnv(key, env)
	}
	v.SetEnvPrefix("XRAYSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig resolves configuration from v. If path is non-empty the YAML
// file is merged in first; a missing file is an error since it was asked for
// explicitly.
func LoadConfig(v *viper.Viper, path string) (*AppConfig, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Server = strings.TrimRight(cfg.Server, "/")
	if cfg.IssueTypes.TestSet == "" {
		cfg.IssueTypes.TestSet = DefaultTestSetIssueType
	}
	if cfg.IssueTypes.Test == "" {
		cfg.IssueTypes.Test = DefaultTestIssueType
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return cfg, nil
}

// ValidateConnection reports missing settings needed to talk to Jira.
// Password is checked separately because it may come from the keyring.
func (c *AppConfig) ValidateConnection() error {
	return c.requireSet(false)
}

// Validate reports missing settings needed for a sync run.
func (c *AppConfig) Validate() error {
	if err := c.requireSet(true); err != nil {
		return err
	}

	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("test set root %s: %w", c.Root, err)
	}
	if !info.IsDir() {
		return errors.New("test set root " + c.Root + " is not a directory")
	}

	return nil
}

func (c *AppConfig) requireSet(withProject bool) error {
	var missing []string
	if c.Server == "" {
		missing = append(missing, "server (JIRA_SERVER)")
	}
	if c.User == "" {
		missing = append(missing, "user (JIRA_USER)")
	}
	if withProject && c.Project == "" {
		missing = append(missing, "project (JIRA_PROJECT)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
