package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/xray-sync/internal/source"
)

type fieldUpdate struct {
	Key    string
	Fields map[string]interface{}
}

// fakeTracker is an in-memory source.IssueTracker.
type fakeTracker struct {
	issues  map[string]*source.Issue
	created []source.NewIssue
	updates []fieldUpdate
	nextID  int
	failOn  string
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{issues: make(map[string]*source.Issue), nextID: 100}
}

func (f *fakeTracker) IssueExists(_ context.Context, key string) (bool, error) {
	_, ok := f.issues[key]
	return ok, nil
}

func (f *fakeTracker) GetIssue(_ context.Context, key string) (*source.Issue, error) {
	issue, ok := f.issues[key]
	if !ok {
		return nil, &source.APIError{StatusCode: 404, Method: "GET", Path: key}
	}
	cp := *issue
	return &cp, nil
}

func (f *fakeTracker) CreateIssue(_ context.Context, issue source.NewIssue) (string, error) {
	if f.failOn == "create" {
		return "", errors.New("create refused")
	}
	f.nextID++
	key := fmt.Sprintf("%s-%d", issue.Project, f.nextID)
	f.created = append(f.created, issue)
	f.issues[key] = &source.Issue{
		Key:         key,
		Summary:     issue.Summary,
		Description: issue.Description,
		IssueType:   issue.IssueType,
	}
	return key, nil
}

func (f *fakeTracker) UpdateIssueFields(_ context.Context, key string, fields map[string]interface{}) error {
	issue, ok := f.issues[key]
	if !ok {
		return &source.APIError{StatusCode: 404, Method: "PUT", Path: key}
	}
	f.updates = append(f.updates, fieldUpdate{Key: key, Fields: fields})
	for name, value := range fields {
		switch name {
		case "summary":
			issue.Summary = value.(string)
		case "description":
			issue.Description = value.(string)
		}
	}
	return nil
}

// fakeStepStore is an in-memory source.StepStore.
type fakeStepStore struct {
	steps       map[string][]source.Step
	attachments map[string][][]source.Attachment
	deletes     int
	creates     int
	nextID      int
	failAfter   int
}

func newFakeStepStore() *fakeStepStore {
	return &fakeStepStore{
		steps:       make(map[string][]source.Step),
		attachments: make(map[string][][]source.Attachment),
		nextID:      1,
		failAfter:   -1,
	}
}

func (f *fakeStepStore) ListSteps(_ context.Context, key string) ([]source.Step, error) {
	out := make([]source.Step, len(f.steps[key]))
	copy(out, f.steps[key])
	return out, nil
}

func (f *fakeStepStore) DeleteStep(_ context.Context, key string, id int) error {
	steps := f.steps[key]
	for i, s := range steps {
		if s.ID == id {
			f.steps[key] = append(steps[:i:i], steps[i+1:]...)
			f.deletes++
			for j := range f.steps[key] {
				f.steps[key][j].Index = j + 1
			}
			return nil
		}
	}
	return &source.APIError{StatusCode: 404, Method: "DELETE", Path: key}
}

func (f *fakeStepStore) CreateStep(_ context.Context, key string, step source.NewStep) error {
	if f.failAfter >= 0 && f.creates >= f.failAfter {
		return errors.New("xray unavailable")
	}
	f.creates++
	f.nextID++
	f.steps[key] = append(f.steps[key], source.Step{
		ID:     f.nextID,
		Index:  len(f.steps[key]) + 1,
		Step:   step.Step,
		Data:   step.Data,
		Result: step.Result,
	})
	f.attachments[key] = append(f.attachments[key], step.Attachments)
	return nil
}

type stepContent struct {
	Step, Data, Result string
}

func (f *fakeStepStore) content(key string) []stepContent {
	var out []stepContent
	for _, s := range f.steps[key] {
		out = append(out, stepContent{s.Step, s.Data, s.Result})
	}
	return out
}
