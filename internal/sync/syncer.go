// Package sync pushes local test manifests to Jira and Xray.
package sync

import (
	"context"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/xray-sync/internal/manifest"
	"github.com/nhle/xray-sync/internal/model"
	"github.com/nhle/xray-sync/internal/source"
)

// Options configures a Syncer.
type Options struct {
	// Project is the key of the Jira project issues are created in.
	Project string

	// TestSetIssueType and TestIssueType name the issue types used on create.
	TestSetIssueType string
	TestIssueType    string
}

// TestReport summarises the sync of a single test.
type TestReport struct {
	Name               string
	Path               string
	Key                string
	Created            bool
	UpdatedFields      []string
	StepsDeleted       int
	StepsCreated       int
	AttachmentFailures int
}

// Report summarises a whole run.
type Report struct {
	TestSetName    string
	TestSetKey     string
	TestSetCreated bool
	TestSetUpdated []string
	Tests          []TestReport
	Duration       time.Duration
}

// IssuesCreated counts issues created during the run.
func (r *Report) IssuesCreated() int {
	n := 0
	if r.TestSetCreated {
		n++
	}
	for _, t := range r.Tests {
		if t.Created {
			n++
		}
	}
	return n
}

// FieldsUpdated counts field update calls made during the run.
func (r *Report) FieldsUpdated() int {
	n := len(r.TestSetUpdated)
	for _, t := range r.Tests {
		n += len(t.UpdatedFields)
	}
	return n
}

// Syncer runs the manifest to Jira/Xray sync, one record at a time.
type Syncer struct {
	loader     *manifest.Loader
	reconciler *Reconciler
	steps      *StepSynchronizer
	opts       Options
	logger     *zap.Logger
}

// New creates a Syncer reading manifests through loader.
func New(
	loader *manifest.Loader,
	tracker source.IssueTracker,
	store source.StepStore,
	opts Options,
	logger *zap.Logger,
) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TestSetIssueType == "" {
		opts.TestSetIssueType = model.DefaultTestSetIssueType
	}
	if opts.TestIssueType == "" {
		opts.TestIssueType = model.DefaultTestIssueType
	}
	return &Syncer{
		loader:     loader,
		reconciler: NewReconciler(tracker, opts.Project, logger),
		steps:      NewStepSynchronizer(store, loader, logger),
		opts:       opts,
		logger:     logger,
	}
}

// Run loads the test-set manifest, reconciles its issue and writes the key
// back, then does the same for every referenced test including its steps.
// The first error aborts the run; the partial report is returned with it.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}
	defer func() { report.Duration = time.Since(start) }()

	setPath := manifest.TestSetPath()
	set, err := s.loader.LoadTestSet(setPath)
	if err != nil {
		return report, err
	}
	report.TestSetName = set.Name

	res, err := s.reconciler.Reconcile(ctx, set, s.opts.TestSetIssueType)
	if err != nil {
		return report, fmt.Errorf("test set %q: %w", set.Name, err)
	}
	report.TestSetKey = res.Key
	report.TestSetCreated = res.Created
	report.TestSetUpdated = res.UpdatedFields

	if err := s.loader.SaveTestSet(setPath, set); err != nil {
		return report, err
	}

	for _, info := range set.Tests {
		tr, err := s.syncTest(ctx, info)
		if tr != nil {
			report.Tests = append(report.Tests, *tr)
		}
		if err != nil {
			return report, fmt.Errorf("test %q (%s): %w", info.Name, info.Path, err)
		}
	}

	s.logger.Info("sync finished",
		zap.String("test_set", res.Key),
		zap.Int("tests", len(report.Tests)),
		zap.Int("issues_created", report.IssuesCreated()),
		zap.Int("fields_updated", report.FieldsUpdated()),
	)

	return report, nil
}

// syncTest reconciles one referenced test and replaces its steps. The
// manifest is written back once the steps are in place.
func (s *Syncer) syncTest(
	ctx context.Context,
	info model.TestInfo,
) (*TestReport, error) {
	testPath := manifest.TestPath(info)
	test, err := s.loader.LoadTest(testPath)
	if err != nil {
		return nil, err
	}

	tr := &TestReport{Name: test.Name, Path: info.Path}

	res, err := s.reconciler.Reconcile(ctx, test, s.opts.TestIssueType)
	if err != nil {
		return tr, err
	}
	tr.Key = res.Key
	tr.Created = res.Created
	tr.UpdatedFields = res.UpdatedFields

	stepRes, err := s.steps.SyncSteps(ctx, test.IssueKey, path.Clean(info.Path), test.Steps)
	if stepRes != nil {
		tr.StepsDeleted = stepRes.Deleted
		tr.StepsCreated = stepRes.Created
		tr.AttachmentFailures = stepRes.AttachmentFailures
	}
	if err != nil {
		// Keep the new key so the next run does not create a duplicate.
		if res.Created {
			if saveErr := s.loader.SaveTest(testPath, test); saveErr != nil {
				s.logger.Error("saving issue key after step failure",
					zap.String("key", res.Key), zap.Error(saveErr))
			}
		}
		return tr, err
	}

	if err := s.loader.SaveTest(testPath, test); err != nil {
		return tr, err
	}

	return tr, nil
}
