package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/xray-sync/internal/model"
	"github.com/nhle/xray-sync/tests/testutil"
)

const testSetYAML = `name: Zulu regression
description: Nightly regression set
tests:
  - name: Login happy path
    path: login
  - name: Logout
    path: logout
`

const testYAML = `name: Login happy path
description: User logs in with valid credentials
owner: qa-team
steps:
  - name: open
    step: Open the login page
    data: https://example.test/login
    result: Login form is shown
    attachments:
      - filename: form.png
        filepath: screenshots/form.png
        content_type: image/png
  - step: Submit credentials
    data: alice / secret
    result: Dashboard is shown
`

func TestLoader_LoadTestSet(t *testing.T) {
	fsys := testutil.NewTestFS(t, map[string]string{
		"tests.yml": testSetYAML,
	})
	l := NewLoader(fsys)

	set, err := l.LoadTestSet(TestSetPath())
	require.NoError(t, err)

	assert.Equal(t, "Zulu regression", set.Name)
	assert.Equal(t, "Nightly regression set", set.Description)
	assert.Empty(t, set.IssueKey)
	require.Len(t, set.Tests, 2)
	assert.Equal(t, model.TestInfo{Name: "Logout", Path: "logout"}, set.Tests[1])
	assert.Equal(t, "logout/test.yml", TestPath(set.Tests[1]))
}

func TestLoader_LoadTest(t *testing.T) {
	fsys := testutil.NewTestFS(t, map[string]string{
		"login/test.yml": testYAML,
	})
	l := NewLoader(fsys)

	test, err := l.LoadTest("login/test.yml")
	require.NoError(t, err)

	assert.Equal(t, "Login happy path", test.Name)
	require.Len(t, test.Steps, 2)
	assert.Equal(t, "Open the login page", test.Steps[0].Step)
	assert.Equal(t, []model.TestStepAttachment{{
		FileName:    "form.png",
		FilePath:    "screenshots/form.png",
		ContentType: "image/png",
	}}, test.Steps[0].Attachments)
	assert.Empty(t, test.Steps[1].Name)
	assert.Nil(t, test.Steps[1].Attachments)
}

func TestLoader_LoadErrors(t *testing.T) {
	tests := map[string]struct {
		files map[string]string
	}{
		"missing file": {
			files: map[string]string{},
		},
		"malformed yaml": {
			files: map[string]string{"tests.yml": "name: [unterminated\n"},
		},
		"wrong shape": {
			files: map[string]string{"tests.yml": "- just\n- a list\n"},
		},
		"wrong field type": {
			files: map[string]string{"tests.yml": "tests: 42\n"},
		},
		"empty file": {
			files: map[string]string{"tests.yml": ""},
		},
		"comment only": {
			files: map[string]string{"tests.yml": "# nothing here yet\n"},
		},
		"null document": {
			files: map[string]string{"tests.yml": "---\n~\n"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			l := NewLoader(testutil.NewTestFS(t, test.files))

			_, err := l.LoadTestSet(TestSetPath())
			require.Error(t, err)
			assert.True(t, IsParseError(err))
		})
	}
}

func TestLoader_SaveRoundTrip(t *testing.T) {
	fsys := testutil.NewTestFS(t, map[string]string{
		"login/test.yml": testYAML,
	})
	l := NewLoader(fsys)

	test, err := l.LoadTest("login/test.yml")
	require.NoError(t, err)

	test.SetKey("PAM-42")
	require.NoError(t, l.SaveTest("login/test.yml", test))

	reloaded, err := l.LoadTest("login/test.yml")
	require.NoError(t, err)
	assert.Equal(t, "PAM-42", reloaded.IssueKey)
	assert.Equal(t, test, reloaded)

	assert.Contains(t, testutil.ReadFile(t, fsys, "login/test.yml"), "issue_key: PAM-42")
}

func TestLoader_SaveOmitsEmptyKey(t *testing.T) {
	fsys := testutil.NewTestFS(t, nil)
	l := NewLoader(fsys)

	require.NoError(t, l.SaveTestSet("tests.yml", &model.TestSet{Name: "empty"}))

	assert.NotContains(t, testutil.ReadFile(t, fsys, "tests.yml"), "issue_key")
}

func TestOSLoader_PathsOutsideRoot(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "suite")
	other := filepath.Join(tmp, "other")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.MkdirAll(other, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(other, "test.yml"), []byte(testYAML), 0o644))

	tests := map[string]struct {
		info model.TestInfo
	}{
		"parent relative": {info: model.TestInfo{Name: "Login", Path: "../other"}},
		"absolute":        {info: model.TestInfo{Name: "Login", Path: other}},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			l, err := NewOSLoader(root)
			require.NoError(t, err)

			loaded, err := l.LoadTest(TestPath(test.info))
			require.NoError(t, err)
			assert.Equal(t, "Login happy path", loaded.Name)

			loaded.SetKey("PAM-7")
			require.NoError(t, l.SaveTest(TestPath(test.info), loaded))

			data, err := os.ReadFile(filepath.Join(other, "test.yml"))
			require.NoError(t, err)
			assert.Contains(t, string(data), "issue_key: PAM-7")
		})
	}
}

func TestOSLoader_RelativeRoot(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "tests.yml"), []byte(testSetYAML), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	l, err := NewOSLoader(".")
	require.NoError(t, err)

	set, err := l.LoadTestSet(TestSetPath())
	require.NoError(t, err)
	assert.Equal(t, "Zulu regression", set.Name)
}
