package testutil

import (
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// NewTestFS creates an in-memory filesystem seeded with files, keyed by
// slash-separated path relative to the root.
func NewTestFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()

	fsys := memfs.New()
	for name, content := range files {
		if err := util.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
			t.Fatalf("seeding test fs with %s: %v", name, err)
		}
	}

	return fsys
}

// ReadFile returns the content of name, failing the test if it cannot be read.
func ReadFile(t *testing.T, fsys billy.Filesystem, name string) string {
	t.Helper()

	data, err := util.ReadFile(fsys, name)
	if err != nil {
		t.Fatalf("reading %s from test fs: %v", name, err)
	}

	return string(data)
}
