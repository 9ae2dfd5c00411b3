// Package contracts describes the remote endpoints xraysync depends on.
// Based on Jira REST API v2 with HTTP Basic authentication.
//
// Base URL: {server}/rest/api/2/
// Auth: Authorization: Basic base64(user:password-or-token)
package contracts

// Issue tracker endpoints mapped to source.IssueTracker:
//
// IssueExists:
//   GET /rest/api/2/issue/{key}?fields=summary
//   200 -> true, 404 -> false, anything else is an error
//
// GetIssue:
//   GET /rest/api/2/issue/{key}?fields=summary,description,issuetype,project
//   Returns: { key, fields: { summary, description|null, issuetype: { name } } }
//   A null description compares equal to an empty local description.
//
// CreateIssue:
//   POST /rest/api/2/issue
//   Body: { fields: { project: { key }, summary, description,
//                     issuetype: { name: "Test Set" } } }
//   Returns: { id, key, self }
//
// UpdateIssueFields:
//   PUT /rest/api/2/issue/{key}
//   Body: { fields: { summary } } or { fields: { description } }
//   One request per changed field. Returns 204 No Content.
//
// ValidateConnection:
//   GET /rest/api/2/myself
//   Returns: { key, name, displayName, emailAddress }
//
// Project inspection (fields command):
//   GET /rest/api/2/project/{key}
//   GET /rest/api/2/issue/createmeta?projectKeys={key}&expand=projects.issuetypes.fields
//
// Error format:
//   { errorMessages: [...], errors: {...} }
//
// Retries:
//   None. Any failure aborts the run.
