package contracts

// Xray Server endpoints mapped to source.StepStore.
//
// Base URL: {server}/rest/raven/1.0/api/
// Auth: same Basic credentials as Jira.
//
// ListSteps:
//   GET /rest/raven/1.0/api/test/{key}/step
//   Returns: [{ id, index, step: { raw, rendered }, data: { raw, rendered },
//               result: { raw, rendered }, attachments: [...] }]
//
// DeleteStep:
//   DELETE /rest/raven/1.0/api/test/{key}/step/{id}
//
// CreateStep:
//   PUT /rest/raven/1.0/api/test/{key}/step
//   Body: { step, data, result,
//           attachments: [{ data: <base64>, filename, contentType }] }
//   Steps are appended; submission order is the remote order.
//
// Sync strategy:
//   Every remote step is deleted, then the local steps are created in order.
//   A failure part way leaves the list partially rebuilt; the next run
//   rebuilds it again.
//
// Attachments:
//   An unreadable local file is sent with data "" and logged; the step is
//   still created.
