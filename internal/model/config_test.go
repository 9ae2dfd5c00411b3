package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("JIRA_SERVER", "https://jira.example.test/")
	t.Setenv("JIRA_USER", "qa")
	t.Setenv("JIRA_PASS", "s3cret")
	t.Setenv("JIRA_PROJECT", "PAM")
	t.Setenv("XRAYSYNC_ROOT", root)

	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://jira.example.test", cfg.Server)
	assert.Equal(t, "qa", cfg.User)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, "PAM", cfg.Project)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, DefaultTestSetIssueType, cfg.IssueTypes.TestSet)
	assert.Equal(t, DefaultTestIssueType, cfg.IssueTypes.Test)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xraysync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`server: https://jira.example.test
user: qa
project: PAM
root: `+dir+`
timeout: 5s
issue_types:
  test: Test
`), 0o644))

	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "Test", cfg.IssueTypes.Test)
	assert.Equal(t, DefaultTestSetIssueType, cfg.IssueTypes.TestSet)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestAppConfig_Validate(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "tests.yml")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := map[string]struct {
		cfg      AppConfig
		wantFail bool
	}{
		"complete": {
			cfg: AppConfig{Server: "s", User: "u", Project: "P", Root: root},
		},
		"missing server": {
			cfg:      AppConfig{User: "u", Project: "P", Root: root},
			wantFail: true,
		},
		"missing project": {
			cfg:      AppConfig{Server: "s", User: "u", Root: root},
			wantFail: true,
		},
		"root does not exist": {
			cfg:      AppConfig{Server: "s", User: "u", Project: "P", Root: filepath.Join(root, "nope")},
			wantFail: true,
		},
		"root is a file": {
			cfg:      AppConfig{Server: "s", User: "u", Project: "P", Root: file},
			wantFail: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if test.wantFail {
				assert.Error(t, test.cfg.Validate())
			} else {
				assert.NoError(t, test.cfg.Validate())
			}
		})
	}
}
