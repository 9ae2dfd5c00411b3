// Package xray talks to the Xray test-management REST API of a Jira
// Server/DC instance.
package xray

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nhle/xray-sync/internal/source"
	"github.com/nhle/xray-sync/internal/source/jira"
)

const apiPrefix = "/rest/raven/1.0/api"

// Adapter implements source.StepStore using the Xray Server API.
type Adapter struct {
	client *jira.Client
}

var _ source.StepStore = (*Adapter)(nil)

// NewAdapter creates an Xray adapter sharing the given Jira HTTP client.
func NewAdapter(client *jira.Client) *Adapter {
	return &Adapter{client: client}
}

func stepsPath(testKey string) string {
	return fmt.Sprintf("%s/test/%s/step", apiPrefix, url.PathEscape(testKey))
}

// GetTestSteps returns the raw steps of a test.
func (a *Adapter) GetTestSteps(
	ctx context.Context,
	testKey string,
) ([]TestStep, error) {
	var steps []TestStep
	if err := a.client.Get(ctx, stepsPath(testKey), &steps); err != nil {
		return nil, fmt.Errorf("fetching test steps of %s: %w", testKey, err)
	}
	return steps, nil
}

// ListSteps returns the steps of a test in remote order.
func (a *Adapter) ListSteps(
	ctx context.Context,
	testKey string,
) ([]source.Step, error) {
	raw, err := a.GetTestSteps(ctx, testKey)
	if err != nil {
		return nil, err
	}

	steps := make([]source.Step, 0, len(raw))
	for _, s := range raw {
		steps = append(steps, source.Step{
			ID:     s.ID,
			Index:  s.Index,
			Step:   s.Step.Raw,
			Data:   s.Data.Raw,
			Result: s.Result.Raw,
		})
	}
	return steps, nil
}

// DeleteStep removes a step from a test.
func (a *Adapter) DeleteStep(
	ctx context.Context,
	testKey string,
	stepID int,
) error {
	path := fmt.Sprintf("%s/%d", stepsPath(testKey), stepID)
	if err := a.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting step %d of %s: %w", stepID, testKey, err)
	}
	return nil
}

// CreateStep appends a step, with inline attachments, to a test.
func (a *Adapter) CreateStep(
	ctx context.Context,
	testKey string,
	step source.NewStep,
) error {
	attachments := make([]AttachmentPayload, 0, len(step.Attachments))
	for _, att := range step.Attachments {
		attachments = append(attachments, AttachmentPayload{
			Data:        att.Data,
			FileName:    att.FileName,
			ContentType: att.ContentType,
		})
	}

	body := CreateStepRequest{
		Step:        step.Step,
		Data:        step.Data,
		Result:      step.Result,
		Attachments: attachments,
	}

	// Xray answers with the created step; only success matters here.
	if err := a.client.Put(ctx, stepsPath(testKey), body, nil); err != nil {
		return fmt.Errorf("creating step of %s: %w", testKey, err)
	}
	return nil
}
