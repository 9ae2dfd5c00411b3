package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nhle/xray-sync/internal/model"
	"github.com/nhle/xray-sync/internal/source"
)

func TestReconciler_Reconcile(t *testing.T) {
	tests := map[string]struct {
		remote      *source.Issue
		record      *model.Test
		wantCreated bool
		wantKey     string
		wantUpdates []string
	}{
		"no key creates issue": {
			record:      &model.Test{Name: "Login happy path", Description: "d"},
			wantCreated: true,
			wantKey:     "PAM-101",
		},
		"stale key creates issue": {
			record:      &model.Test{Name: "Login", IssueKey: "PAM-9"},
			wantCreated: true,
			wantKey:     "PAM-101",
		},
		"existing unchanged is a no-op": {
			remote:  &source.Issue{Key: "PAM-5", Summary: "Login", Description: "d"},
			record:  &model.Test{Name: "Login", Description: "d", IssueKey: "PAM-5"},
			wantKey: "PAM-5",
		},
		"summary changed": {
			remote:      &source.Issue{Key: "PAM-5", Summary: "Old", Description: "d"},
			record:      &model.Test{Name: "Login", Description: "d", IssueKey: "PAM-5"},
			wantKey:     "PAM-5",
			wantUpdates: []string{"summary"},
		},
		"both changed": {
			remote:      &source.Issue{Key: "PAM-5", Summary: "Old", Description: "old"},
			record:      &model.Test{Name: "Login", Description: "new", IssueKey: "PAM-5"},
			wantKey:     "PAM-5",
			wantUpdates: []string{"summary", "description"},
		},
		"cleared description": {
			remote:      &source.Issue{Key: "PAM-5", Summary: "Login", Description: "old"},
			record:      &model.Test{Name: "Login", IssueKey: "PAM-5"},
			wantKey:     "PAM-5",
			wantUpdates: []string{"description"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			tracker := newFakeTracker()
			if test.remote != nil {
				tracker.issues[test.remote.Key] = test.remote
			}
			r := NewReconciler(tracker, "PAM", zap.NewNop())

			res, err := r.Reconcile(context.Background(), test.record, "Test")
			require.NoError(t, err)

			assert.Equal(t, test.wantKey, res.Key)
			assert.Equal(t, test.wantCreated, res.Created)
			assert.Equal(t, test.wantUpdates, res.UpdatedFields)
			assert.Equal(t, test.wantKey, test.record.IssueKey)
			assert.Len(t, tracker.updates, len(test.wantUpdates))

			if test.wantCreated {
				require.Len(t, tracker.created, 1)
				assert.Equal(t, source.NewIssue{
					Project:     "PAM",
					Summary:     test.record.Name,
					Description: test.record.Description,
					IssueType:   "Test",
				}, tracker.created[0])
			} else {
				assert.Empty(t, tracker.created)
			}
		})
	}
}

func TestReconciler_OneUpdatePerField(t *testing.T) {
	tracker := newFakeTracker()
	tracker.issues["PAM-5"] = &source.Issue{Key: "PAM-5", Summary: "Old", Description: "old"}
	r := NewReconciler(tracker, "PAM", nil)

	_, err := r.Reconcile(context.Background(), &model.TestSet{
		Name: "New", Description: "new", IssueKey: "PAM-5",
	}, "Test Set")
	require.NoError(t, err)

	assert.Equal(t, []fieldUpdate{
		{Key: "PAM-5", Fields: map[string]interface{}{"summary": "New"}},
		{Key: "PAM-5", Fields: map[string]interface{}{"description": "new"}},
	}, tracker.updates)
}

func TestReconciler_CreateFailureLeavesKeyUnset(t *testing.T) {
	tracker := newFakeTracker()
	tracker.failOn = "create"
	r := NewReconciler(tracker, "PAM", nil)

	record := &model.Test{Name: "Login"}
	_, err := r.Reconcile(context.Background(), record, "Test")
	require.Error(t, err)
	assert.Empty(t, record.IssueKey)
}
