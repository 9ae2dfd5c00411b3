package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AuthError indicates that authentication has failed for a remote service.
// It is returned by clients when a 401 response is received.
type AuthError struct {
	Service string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Service, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// APIError is returned for any non-2xx response other than 401.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Messages   []string
	Fields     map[string]string
	Body       string
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 || len(e.Fields) > 0 {
		return fmt.Sprintf(
			"jira API error (%d) on %s %s: %s %v",
			e.StatusCode, e.Method, e.Path,
			strings.Join(e.Messages, "; "), e.Fields,
		)
	}
	return fmt.Sprintf(
		"unexpected status %d on %s %s: %s",
		e.StatusCode, e.Method, e.Path, e.Body,
	)
}

// IsNotFound reports whether err is an APIError carrying a 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Issue is the subset of a remote issue the reconciler compares against.
type Issue struct {
	Key         string
	Summary     string
	Description string
	IssueType   string
}

// NewIssue describes an issue to be created.
type NewIssue struct {
	Project     string
	Summary     string
	Description string
	IssueType   string
}

// Step is a test step as stored remotely.
type Step struct {
	ID     int
	Index  int
	Step   string
	Data   string
	Result string
}

// Attachment is a file attached to a new step. Data is the base64 encoded
// content and is empty when the local file could not be read.
type Attachment struct {
	Data        string
	FileName    string
	ContentType string
}

// NewStep describes a test step to be created.
type NewStep struct {
	Step        string
	Data        string
	Result      string
	Attachments []Attachment
}

// IssueTracker is the subset of the issue tracker used by the reconciler.
type IssueTracker interface {
	// IssueExists reports whether an issue with key exists.
	IssueExists(ctx context.Context, key string) (bool, error)

	// GetIssue fetches an issue by key.
	GetIssue(ctx context.Context, key string) (*Issue, error)

	// CreateIssue creates an issue and returns its key.
	CreateIssue(ctx context.Context, issue NewIssue) (string, error)

	// UpdateIssueFields sets the given fields on an issue.
	UpdateIssueFields(ctx context.Context, key string, fields map[string]interface{}) error
}

// StepStore is the test-management extension holding test steps.
type StepStore interface {
	// ListSteps returns the steps of a test in remote order.
	ListSteps(ctx context.Context, testKey string) ([]Step, error)

	// DeleteStep removes a single step by id.
	DeleteStep(ctx context.Context, testKey string, stepID int) error

	// CreateStep appends a step to the test.
	CreateStep(ctx context.Context, testKey string, step NewStep) error
}
