package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/xray-sync/internal/model"
	"github.com/nhle/xray-sync/internal/source"
)

// ReconcileResult describes what Reconcile did to the remote issue.
type ReconcileResult struct {
	Key           string
	Created       bool
	UpdatedFields []string
}

// Reconciler makes sure a manifest record is backed by a Jira issue whose
// summary and description match the local values.
type Reconciler struct {
	tracker source.IssueTracker
	project string
	logger  *zap.Logger
}

// NewReconciler creates a Reconciler creating issues in project.
func NewReconciler(
	tracker source.IssueTracker,
	project string,
	logger *zap.Logger,
) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		tracker: tracker,
		project: project,
		logger:  logger,
	}
}

// Reconcile resolves record to a remote issue. If the record carries a key
// that still exists, the issue is fetched and its summary and description
// are updated one field at a time where they differ. Otherwise a new issue
// of issueType is created and its key is stored on the record.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	record model.Record,
	issueType string,
) (*ReconcileResult, error) {
	issue, err := r.lookup(ctx, record.Key())
	if err != nil {
		return nil, err
	}

	if issue == nil {
		key, err := r.tracker.CreateIssue(ctx, source.NewIssue{
			Project:     r.project,
			Summary:     record.Summary(),
			Description: record.Body(),
			IssueType:   issueType,
		})
		if err != nil {
			return nil, err
		}

		if old := record.Key(); old != "" {
			r.logger.Warn("stored issue key no longer exists, created a new issue",
				zap.String("old_key", old),
				zap.String("key", key),
			)
		}
		record.SetKey(key)

		r.logger.Info("created issue",
			zap.String("key", key),
			zap.String("issue_type", issueType),
			zap.String("summary", record.Summary()),
		)
		return &ReconcileResult{Key: key, Created: true}, nil
	}

	result := &ReconcileResult{Key: issue.Key}
	for _, d := range diffFields(issue, record) {
		err := r.tracker.UpdateIssueFields(ctx, issue.Key, map[string]interface{}{
			d.field: d.value,
		})
		if err != nil {
			return nil, err
		}
		result.UpdatedFields = append(result.UpdatedFields, d.field)
		r.logger.Info("updated issue field",
			zap.String("key", issue.Key),
			zap.String("field", d.field),
		)
	}

	return result, nil
}

// lookup returns the remote issue for key, or nil when key is empty or no
// longer exists.
func (r *Reconciler) lookup(
	ctx context.Context,
	key string,
) (*source.Issue, error) {
	if key == "" {
		return nil, nil
	}

	exists, err := r.tracker.IssueExists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	issue, err := r.tracker.GetIssue(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", key, err)
	}
	return issue, nil
}

type fieldDiff struct {
	field string
	value string
}

// diffFields lists the mutable fields whose local value differs from the
// remote one, summary first.
func diffFields(issue *source.Issue, record model.Record) []fieldDiff {
	var diffs []fieldDiff
	if issue.Summary != record.Summary() {
		diffs = append(diffs, fieldDiff{field: "summary", value: record.Summary()})
	}
	if issue.Description != record.Body() {
		diffs = append(diffs, fieldDiff{field: "description", value: record.Body()})
	}
	return diffs
}
