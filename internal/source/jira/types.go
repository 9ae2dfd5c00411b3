package jira

// Issue represents a single Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the fields of a Jira issue the sync reads.
// Description is a pointer because Jira returns null for an empty one.
type IssueFields struct {
	Summary     string    `json:"summary"`
	Description *string   `json:"description"`
	IssueType   IssueType `json:"issuetype"`
	Project     Project   `json:"project"`
}

// IssueType represents the type of a Jira issue (Test, Test Set, etc.).
type IssueType struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Project represents a Jira project.
type Project struct {
	ID   string `json:"id,omitempty"`
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// CreateIssueRequest is the body of POST /rest/api/2/issue.
type CreateIssueRequest struct {
	Fields CreateIssueFields `json:"fields"`
}

// CreateIssueFields are the fields set on a new issue.
type CreateIssueFields struct {
	Project     ProjectRef   `json:"project"`
	Summary     string       `json:"summary"`
	Description string       `json:"description"`
	IssueType   IssueTypeRef `json:"issuetype"`
}

// ProjectRef references a project by key.
type ProjectRef struct {
	Key string `json:"key"`
}

// IssueTypeRef references an issue type by name.
type IssueTypeRef struct {
	Name string `json:"name"`
}

// CreatedIssue is the response from POST /rest/api/2/issue.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// UpdateIssueRequest is the body of PUT /rest/api/2/issue/{key}.
type UpdateIssueRequest struct {
	Fields map[string]interface{} `json:"fields"`
}

// Myself is the response from GET /rest/api/2/myself.
type Myself struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

// CreateMeta is the response from GET /rest/api/2/issue/createmeta.
type CreateMeta struct {
	Projects []CreateMetaProject `json:"projects"`
}

// CreateMetaProject lists the issue types available in a project.
type CreateMetaProject struct {
	ID         string                `json:"id"`
	Key        string                `json:"key"`
	Name       string                `json:"name"`
	IssueTypes []CreateMetaIssueType `json:"issuetypes"`
}

// CreateMetaIssueType lists the fields settable on create for an issue type.
type CreateMetaIssueType struct {
	ID     string                     `json:"id"`
	Name   string                     `json:"name"`
	Fields map[string]CreateMetaField `json:"fields"`
}

// CreateMetaField describes a single field of an issue type.
type CreateMetaField struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
