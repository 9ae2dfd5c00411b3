package xray

// TestStep is a test step as returned by GET /rest/raven/1.0/api/test/{key}/step.
type TestStep struct {
	ID          int              `json:"id"`
	Index       int              `json:"index"`
	Step        StepField        `json:"step"`
	Data        StepField        `json:"data"`
	Result      StepField        `json:"result"`
	Attachments []StepAttachment `json:"attachments,omitempty"`
}

// StepField holds the raw wiki markup of a step field and its rendered HTML.
type StepField struct {
	Raw      string `json:"raw"`
	Rendered string `json:"rendered"`
}

// StepAttachment describes an attachment already stored on a step.
type StepAttachment struct {
	ID                int    `json:"id"`
	Author            string `json:"author"`
	AuthorFullName    string `json:"authorFullName"`
	Created           string `json:"created"`
	CreatedDate       int64  `json:"createdDate"`
	FileIcon          string `json:"fileIcon"`
	FileIconAlt       string `json:"fileIconAlt"`
	FileName          string `json:"fileName"`
	FilePath          string `json:"filePath"`
	FileSize          string `json:"fileSize"`
	FileURL           string `json:"fileURL"`
	MimeType          string `json:"mimeType"`
	NumericalFileSize int64  `json:"numericalFileSize"`
}

// CreateStepRequest is the body of PUT /rest/raven/1.0/api/test/{key}/step.
type CreateStepRequest struct {
	Step        string              `json:"step"`
	Data        string              `json:"data"`
	Result      string              `json:"result"`
	Attachments []AttachmentPayload `json:"attachments"`
}

// AttachmentPayload is an inline, base64-encoded attachment.
type AttachmentPayload struct {
	Data        string `json:"data"`
	FileName    string `json:"filename"`
	ContentType string `json:"contentType"`
}
