package form

// Request Types

// SubmitFormRequest carries one submission attempt: an answer per question
// index. File answers arrive as file values holding Base64 data URIs.
// WaitForExport makes the submission block until the export document is
// written, so a caller that immediately hands out the artifact never races
// the writer.
type SubmitFormRequest struct {
	Answers       map[int]Value `json:"answers"`
	WaitForExport bool          `json:"wait_for_export,omitempty"`
}

// ValidateQuestionsRequest carries an untrusted question document.
type ValidateQuestionsRequest struct {
	Raw []byte `json:"raw"`
}

// LoadFormRequest asks for a prior submission by id.
type LoadFormRequest struct {
	ID string `json:"id"`
}

// Response Types

// SubmitFormResult reports one submission attempt. On validation failure
// Submitted is false, Errors holds the per-field messages and FirstError
// indexes the question to bring into view; nothing was persisted. On
// success FormID identifies the appended record.
type SubmitFormResult struct {
	Submitted  bool           `json:"submitted"`
	FirstError int            `json:"first_error"`
	Errors     map[int]string `json:"errors,omitempty"`
	FormID     string         `json:"form_id,omitempty"`
	CreatedAt  int64          `json:"created_at,omitempty"`
	Answers    map[int]Value  `json:"answers,omitempty"`
	ImageMap   map[int]string `json:"image_map,omitempty"`
	ExportPath string         `json:"export_path,omitempty"`
}

// ValidateQuestionsResult reports whether a question document matches the
// schema. Schema failures are carried in Message, not as a Go error.
type ValidateQuestionsResult struct {
	Valid   bool   `json:"valid"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

// LoadFormResult carries a prior submission with its uploaded images
// restored into the answer slots they were submitted from.
type LoadFormResult struct {
	Form   SavedForm     `json:"form"`
	Values map[int]Value `json:"values"`
}

// ToolInfo describes one tool exposed by the server.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}

// ServerInfoResult summarizes the running service.
type ServerInfoResult struct {
	ServerName     string     `json:"server_name"`
	Version        string     `json:"version"`
	QuestionCount  int        `json:"question_count"`
	SavedFormCount int        `json:"saved_form_count"`
	ExportPath     string     `json:"export_path"`
	SourceErrors   []string   `json:"source_errors,omitempty"`
	AvailableTools []ToolInfo `json:"available_tools"`
}
