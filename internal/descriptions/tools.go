package descriptions

// Tool descriptions with practical examples and use cases

const (
	FormServerInfoDescription = `Get server information, the active questionnaire, saved submissions and usage guidance.

**When to use:** First call in a session to discover the loaded question set and available tools.

**Examples:**
• "What questionnaire is currently loaded?"
• "How many submissions have been collected so far?"

**Best practices:** Call this before submitting to learn the question indexes and which questions are required.`

	QuestionsGetDescription = `Get the active question list as JSON.

**When to use:** Need the questions, their order, required flags and option lists before filling in answers.

**Why it's useful:** Answer values are correlated to questions by 0-based index, so the exact list order matters.

**Examples:**
• "Show me the current form so I can answer it"
• "Which questions are required?"`

	QuestionsValidateDescription = `Validate a JSON question document against the questionnaire schema.

**When to use:** Authoring or importing a custom question set and checking it before serving it.

**Why it's useful:** The importer rejects a whole document on any malformed element; this tool pinpoints the offending element, field and reason.

**Examples:**
• Check a draft: "Validate this question list before I publish it"
• Debug an import failure: "Why was my override question source rejected?"`

	FormSubmitDescription = `Submit answers for the active questionnaire.

**When to use:** All answers are gathered and the submission should be persisted and exported.

**Why it's useful:** Runs required-field validation, stores uploaded images, appends a durable submission record and produces the downloadable PDF in one call.

**Parameters:** answers — JSON object keyed by question index; values are a string, an array of strings, or {"file": "<Base64 data URI>"} for uploads.

**Common workflows:**
1. questions_get → fill answers → form_submit
2. On validation failure: fix the reported fields → form_submit again`

	FormsListDescription = `List previously saved submissions, oldest first.

**When to use:** Browsing collected responses or picking one to reload.

**Examples:**
• "Show all submissions collected today"
• "Get the id of the latest submission"`

	FormLoadDescription = `Load one saved submission by id, with uploaded images restored into their answer slots.

**When to use:** Re-displaying a prior submission, including its images, without re-upload.

**Examples:**
• "Reload submission 2f1c… so I can review the answers"`

	ImageGetDescription = `Fetch a stored image payload by image-store id.

**When to use:** A saved form's image map references an id and the raw image content is needed.

**Best practices:** Payloads are returned as Base64 data URIs ready for embedding.`

	ExportInspectDescription = `Verify and inspect the last exported PDF document.

**When to use:** Confirming the export artifact exists, is structurally valid, and checking its page count and text content.

**Examples:**
• "Did the last submission produce a valid PDF?"
• "How many pages is the exported document?"`
)
