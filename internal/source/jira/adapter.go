package jira

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/nhle/xray-sync/internal/source"
)

// issueFields are the fields requested when fetching a single issue.
const issueFields = "summary,description,issuetype,project"

// Adapter implements source.IssueTracker for Jira Server/DC.
type Adapter struct {
	client *Client
}

var _ source.IssueTracker = (*Adapter)(nil)

// NewAdapter creates a new Jira issue adapter on top of client.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// ValidateConnection verifies credentials by calling GET /rest/api/2/myself.
// Returns the user's display name on success.
func (a *Adapter) ValidateConnection(
	ctx context.Context,
) (string, error) {
	me, err := a.Myself(ctx)
	if err != nil {
		return "", fmt.Errorf("validating Jira connection: %w", err)
	}
	return me.DisplayName, nil
}

// Myself returns the authenticated user.
func (a *Adapter) Myself(ctx context.Context) (*Myself, error) {
	var me Myself
	if err := a.client.Get(ctx, "/rest/api/2/myself", &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// IssueExists reports whether key refers to an existing issue. A 404 is
// reported as false; any other failure is returned.
func (a *Adapter) IssueExists(
	ctx context.Context,
	key string,
) (bool, error) {
	path := fmt.Sprintf("/rest/api/2/issue/%s?fields=summary", url.PathEscape(key))

	var issue Issue
	err := a.client.Get(ctx, path, &issue)
	if source.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking Jira issue %s: %w", key, err)
	}
	return true, nil
}

// GetIssue fetches the summary, description and type of an issue.
func (a *Adapter) GetIssue(
	ctx context.Context,
	key string,
) (*source.Issue, error) {
	path := fmt.Sprintf(
		"/rest/api/2/issue/%s?fields=%s", url.PathEscape(key), issueFields,
	)

	var issue Issue
	if err := a.client.Get(ctx, path, &issue); err != nil {
		return nil, fmt.Errorf("fetching Jira issue %s: %w", key, err)
	}

	return issueToSource(issue), nil
}

// CreateIssue creates an issue and returns the key Jira assigned to it.
func (a *Adapter) CreateIssue(
	ctx context.Context,
	issue source.NewIssue,
) (string, error) {
	body := CreateIssueRequest{
		Fields: CreateIssueFields{
			Project:     ProjectRef{Key: issue.Project},
			Summary:     issue.Summary,
			Description: issue.Description,
			IssueType:   IssueTypeRef{Name: issue.IssueType},
		},
	}

	var created CreatedIssue
	if err := a.client.Post(ctx, "/rest/api/2/issue", body, &created); err != nil {
		return "", fmt.Errorf(
			"creating %q issue in %s: %w", issue.IssueType, issue.Project, err,
		)
	}
	if created.Key == "" {
		return "", fmt.Errorf(
			"creating %q issue in %s: response carried no key",
			issue.IssueType, issue.Project,
		)
	}

	return created.Key, nil
}

// UpdateIssueFields sets fields on an issue. Jira answers 204 No Content.
func (a *Adapter) UpdateIssueFields(
	ctx context.Context,
	key string,
	fields map[string]interface{},
) error {
	path := fmt.Sprintf("/rest/api/2/issue/%s", url.PathEscape(key))
	body := UpdateIssueRequest{Fields: fields}

	if err := a.client.Put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("updating Jira issue %s: %w", key, err)
	}
	return nil
}

// GetProject fetches a project by key.
func (a *Adapter) GetProject(
	ctx context.Context,
	key string,
) (*Project, error) {
	path := fmt.Sprintf("/rest/api/2/project/%s", url.PathEscape(key))

	var project Project
	if err := a.client.Get(ctx, path, &project); err != nil {
		return nil, fmt.Errorf("fetching Jira project %s: %w", key, err)
	}
	return &project, nil
}

// ProjectIssueFields returns, for each issue type of the project, the
// fields that can be set on create keyed by field id.
func (a *Adapter) ProjectIssueFields(
	ctx context.Context,
	projectKey string,
) (map[string]map[string]CreateMetaField, error) {
	q := url.Values{}
	q.Set("projectKeys", projectKey)
	q.Set("expand", "projects.issuetypes.fields")
	path := "/rest/api/2/issue/createmeta?" + q.Encode()

	var meta CreateMeta
	if err := a.client.Get(ctx, path, &meta); err != nil {
		return nil, fmt.Errorf(
			"fetching create metadata for %s: %w", projectKey, err,
		)
	}

	result := make(map[string]map[string]CreateMetaField)
	for _, p := range meta.Projects {
		if p.Key != projectKey {
			continue
		}
		for _, it := range p.IssueTypes {
			result[it.Name] = it.Fields
		}
	}
	return result, nil
}

// SortedFieldIDs returns the keys of fields in lexical order.
func SortedFieldIDs(fields map[string]CreateMetaField) []string {
	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// issueToSource converts a Jira Issue to a source.Issue.
func issueToSource(issue Issue) *source.Issue {
	description := ""
	if issue.Fields.Description != nil {
		description = *issue.Fields.Description
	}
	return &source.Issue{
		Key:         issue.Key,
		Summary:     issue.Fields.Summary,
		Description: description,
		IssueType:   issue.Fields.IssueType.Name,
	}
}
