package form

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnswerType discriminates the input modality of a question.
type AnswerType string

const (
	AnswerTypeTextBox        AnswerType = "TextBox"
	AnswerTypeMultipleChoice AnswerType = "MultipleChoice"
	AnswerTypeCheckbox       AnswerType = "Checkbox"
	AnswerTypeDropdown       AnswerType = "Dropdown"
	AnswerTypeFileUpload     AnswerType = "FileUpload"

	// Reserved variants. Accepted by the schema but not rendered by the
	// current engine.
	AnswerTypeDatePicker AnswerType = "DatePicker"
	AnswerTypeTimePicker AnswerType = "TimePicker"
)

// Question is one entry of a questionnaire. The AnswerType tag determines
// which fields are meaningful: only the choice variants (MultipleChoice,
// Checkbox, Dropdown) carry an Answers option list.
type Question struct {
	Question   string     `json:"question"`
	Required   bool       `json:"required"`
	AnswerType AnswerType `json:"answerType"`
	Answers    []string   `json:"answers,omitempty"`
}

// QuestionList is an ordered questionnaire. The 0-based position of a
// question is the stable identity used to correlate answers, errors and
// stored images; reordering invalidates every stored correlation.
type QuestionList []Question

// HasOptions reports whether the variant carries an option list.
func (q Question) HasOptions() bool {
	switch q.AnswerType {
	case AnswerTypeMultipleChoice, AnswerTypeCheckbox, AnswerTypeDropdown:
		return true
	default:
		return false
	}
}

// IsMulti reports whether the variant collects multiple selections.
func (q Question) IsMulti() bool {
	return q.AnswerType == AnswerTypeCheckbox
}

// knownAnswerTypes is the full set of accepted variant tags.
var knownAnswerTypes = map[AnswerType]bool{
	AnswerTypeTextBox:        true,
	AnswerTypeMultipleChoice: true,
	AnswerTypeCheckbox:       true,
	AnswerTypeDropdown:       true,
	AnswerTypeFileUpload:     true,
	AnswerTypeDatePicker:     true,
	AnswerTypeTimePicker:     true,
}

// SchemaError describes why a question source failed validation. Index is
// the position of the offending element, or -1 when the document as a whole
// is malformed.
type SchemaError struct {
	Index  int
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("question list: %s", e.Reason)
	}
	if e.Field == "" {
		return fmt.Sprintf("questions[%d]: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("questions[%d].%s: %s", e.Index, e.Field, e.Reason)
}

// ParseQuestionList validates an untrusted JSON document against the
// question schema and returns the typed list. The document must be an array
// whose elements each match exactly one variant shape; any mismatch rejects
// the whole list. The function is pure and never partially populates a
// result.
func ParseQuestionList(raw []byte) (QuestionList, error) {
	var elements []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, &SchemaError{Index: -1, Reason: "document is not an array of objects"}
	}

	list := make(QuestionList, 0, len(elements))
	for i, el := range elements {
		q, err := parseQuestion(i, el)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, nil
}

// isJSONNull reports whether a raw message is the JSON null literal.
// json.Unmarshal of null into a string or bool target is a no-op with a nil
// error, so null must be rejected before field decoding.
func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// parseQuestion validates a single element against its tag-selected variant
// shape. Field types are checked exactly: null never satisfies a field, and
// unknown extra fields are ignored.
func parseQuestion(index int, el map[string]json.RawMessage) (Question, error) {
	var q Question

	tagRaw, ok := el["answerType"]
	if !ok {
		return q, &SchemaError{Index: index, Field: "answerType", Reason: "missing field"}
	}
	var tag string
	if isJSONNull(tagRaw) || json.Unmarshal(tagRaw, &tag) != nil {
		return q, &SchemaError{Index: index, Field: "answerType", Reason: "expected string"}
	}
	q.AnswerType = AnswerType(tag)
	if !knownAnswerTypes[q.AnswerType] {
		return q, &SchemaError{Index: index, Field: "answerType", Reason: fmt.Sprintf("unknown answer type %q", tag)}
	}

	textRaw, ok := el["question"]
	if !ok {
		return q, &SchemaError{Index: index, Field: "question", Reason: "missing field"}
	}
	if isJSONNull(textRaw) || json.Unmarshal(textRaw, &q.Question) != nil {
		return q, &SchemaError{Index: index, Field: "question", Reason: "expected string"}
	}

	reqRaw, ok := el["required"]
	if !ok {
		return q, &SchemaError{Index: index, Field: "required", Reason: "missing field"}
	}
	if isJSONNull(reqRaw) || json.Unmarshal(reqRaw, &q.Required) != nil {
		return q, &SchemaError{Index: index, Field: "required", Reason: "expected boolean"}
	}

	if q.HasOptions() {
		ansRaw, ok := el["answers"]
		if !ok {
			return q, &SchemaError{Index: index, Field: "answers", Reason: "missing field"}
		}
		var items []json.RawMessage
		if isJSONNull(ansRaw) || json.Unmarshal(ansRaw, &items) != nil {
			return q, &SchemaError{Index: index, Field: "answers", Reason: "expected array of strings"}
		}
		for _, item := range items {
			if isJSONNull(item) {
				return q, &SchemaError{Index: index, Field: "answers", Reason: "expected array of strings"}
			}
		}
		if err := json.Unmarshal(ansRaw, &q.Answers); err != nil {
			return q, &SchemaError{Index: index, Field: "answers", Reason: "expected array of strings"}
		}
	}

	return q, nil
}
