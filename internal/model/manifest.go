package model

// Manifest file names looked up inside a test-set directory and inside each
// referenced test directory.
const (
	TestSetManifestName = "tests.yml"
	TestManifestName    = "test.yml"
)

// TestSet is the top-level manifest describing a group of tests that maps
// to a single "Test Set" issue in Jira.
type TestSet struct {
	// Name becomes the issue summary.
	Name string `yaml:"name"`

	// IssueKey is the Jira key (e.g. PROJ-123). Empty until the issue is
	// created, then authoritative for every later run.
	IssueKey string `yaml:"issue_key,omitempty"`

	// Description becomes the issue description.
	Description string `yaml:"description"`

	// Tests lists the referenced test manifests in order.
	Tests []TestInfo `yaml:"tests"`
}

// TestInfo references a test directory relative to the test-set directory.
type TestInfo struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Test is a single test manifest mapped to one Jira issue carrying Xray steps.
type Test struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	IssueKey    string     `yaml:"issue_key,omitempty"`
	Steps       []TestStep `yaml:"steps"`
}

// TestStep is one ordered step of a test.
type TestStep struct {
	// Name is informational only; Xray steps have no name field.
	Name        string               `yaml:"name,omitempty"`
	Step        string               `yaml:"step"`
	Data        string               `yaml:"data"`
	Result      string               `yaml:"result"`
	Attachments []TestStepAttachment `yaml:"attachments,omitempty"`
}

// TestStepAttachment points at a local file uploaded alongside a step.
// FilePath is resolved relative to the test directory.
type TestStepAttachment struct {
	FileName    string `yaml:"filename"`
	FilePath    string `yaml:"filepath"`
	ContentType string `yaml:"content_type"`
}

// Record is the part of a manifest the issue reconciler works on. Both
// TestSet and Test satisfy it.
type Record interface {
	Summary() string
	Body() string
	Key() string
	SetKey(key string)
}

func (s *TestSet) Summary() string { return s.Name }
func (s *TestSet) Body() string { return s.Description }
func (s *TestSet) Key() string { return s.IssueKey }
func (s *TestSet) SetKey(key string) { s.IssueKey = key }
func (t *Test) Summary() string { return t.Name }
func (t *Test) Body() string { return t.Description }
func (t *Test) Key() string { return t.IssueKey }
func (t *Test) SetKey(key string) { t.IssueKey = key }
