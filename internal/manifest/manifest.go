// Package manifest reads and writes the YAML manifests describing test sets
// and tests.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/nhle/xray-sync/internal/model"
)

// ParseError indicates a manifest could not be read or its content does not
// map onto the expected record.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing manifest %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError indicates a manifest could not be written back.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing manifest %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsParseError reports whether err (or any error in its chain) is a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// errEmptyManifest is reported for a manifest without any YAML content.
var errEmptyManifest = errors.New("manifest is empty")

// Loader reads and writes manifests on a billy filesystem rooted at the
// test-set directory. Relative paths are slash-separated and resolved
// against that root.
//
// A Loader created by NewOSLoader also reaches files outside the root:
// absolute paths and relative paths climbing above the root with ".." are
// served from the host filesystem.
type Loader struct {
	fs   billy.Filesystem
	host billy.Filesystem
	root string
}

// NewLoader creates a Loader over fsys. Every path stays inside fsys.
func NewLoader(fsys billy.Filesystem) *Loader {
	return &Loader{fs: fsys}
}

// NewOSLoader creates a Loader over the directory root of the local disk.
func NewOSLoader(root string) (*Loader, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	return &Loader{
		fs:   osfs.New(abs),
		host: osfs.New(string(filepath.Separator)),
		root: abs,
	}, nil
}

// TestSetPath returns the location of the test-set manifest.
func TestSetPath() string {
	return model.TestSetManifestName
}

// TestPath returns the location of the manifest for a referenced test.
func TestPath(info model.TestInfo) string {
	return path.Join(info.Path, model.TestManifestName)
}

// LoadTestSet reads the test-set manifest at p.
func (l *Loader) LoadTestSet(p string) (*model.TestSet, error) {
	set := &model.TestSet{}
	if err := l.load(p, set); err != nil {
		return nil, err
	}
	return set, nil
}

// SaveTestSet overwrites the test-set manifest at p with set.
func (l *Loader) SaveTestSet(p string, set *model.TestSet) error {
	return l.save(p, set)
}

// LoadTest reads the test manifest at p.
func (l *Loader) LoadTest(p string) (*model.Test, error) {
	test := &model.Test{}
	if err := l.load(p, test); err != nil {
		return nil, err
	}
	return test, nil
}

// SaveTest overwrites the test manifest at p with test.
func (l *Loader) SaveTest(p string, test *model.Test) error {
	return l.save(p, test)
}

// ReadFile returns the raw content of the file at p.
func (l *Loader) ReadFile(p string) ([]byte, error) {
	fsys, name := l.resolve(p)
	return util.ReadFile(fsys, name)
}

// resolve picks the filesystem serving p and the name of p on it.
func (l *Loader) resolve(p string) (billy.Filesystem, string) {
	if l.host == nil {
		return l.fs, p
	}
	if filepath.IsAbs(p) {
		return l.host, p
	}

	clean := path.Clean(filepath.ToSlash(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return l.host, filepath.Join(l.root, filepath.FromSlash(clean))
	}
	return l.fs, clean
}

// load decodes the YAML document at p into out. Unknown keys are ignored
// and missing keys leave the zero value in place. A file holding no
// document, or only a null one, is rejected.
func (l *Loader) load(p string, out interface{}) error {
	data, err := l.ReadFile(p)
	if err != nil {
		return &ParseError{Path: p, Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &ParseError{Path: p, Err: err}
	}
	if isEmptyDocument(&doc) {
		return &ParseError{Path: p, Err: errEmptyManifest}
	}

	if err := doc.Decode(out); err != nil {
		return &ParseError{Path: p, Err: err}
	}

	return nil
}

func isEmptyDocument(doc *yaml.Node) bool {
	if doc.Kind == 0 {
		return true
	}
	if doc.Kind != yaml.DocumentNode {
		return false
	}
	if len(doc.Content) == 0 {
		return true
	}
	root := doc.Content[0]
	return root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null"
}

// save encodes in as YAML and overwrites p. The write is not atomic.
func (l *Loader) save(p string, in interface{}) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return &WriteError{Path: p, Err: err}
	}

	fsys, name := l.resolve(p)
	if err := util.WriteFile(fsys, name, data, fs.FileMode(0o644)); err != nil {
		return &WriteError{Path: p, Err: err}
	}

	return nil
}
