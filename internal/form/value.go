package form

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValueKind identifies which shape a form Value holds.
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueText
	ValueMulti
	ValueFile
)

// Value is one answer slot: absent, a single string, an ordered list of
// selections, or a file payload. File values hold the uploaded content as a
// Base64 data URI and exist only transiently before submission; they are
// never written into a saved form's answer map.
type Value struct {
	kind  ValueKind
	text  string
	multi []string
	file  string
}

// TextValue wraps a single-string answer.
func TextValue(s string) Value {
	return Value{kind: ValueText, text: s}
}

// MultiValue wraps an ordered multi-selection answer.
func MultiValue(selections ...string) Value {
	return Value{kind: ValueMulti, multi: selections}
}

// FileValue wraps an uploaded file payload (Base64 data URI).
func FileValue(dataURI string) Value {
	return Value{kind: ValueFile, file: dataURI}
}

// Kind returns the shape of the value.
func (v Value) Kind() ValueKind { return v.kind }

// Text returns the single-string answer, or "" for other kinds.
func (v Value) Text() string { return v.text }

// Multi returns the multi-selection answer, or nil for other kinds.
func (v Value) Multi() []string { return v.multi }

// File returns the file payload, or "" for other kinds.
func (v Value) File() string { return v.file }

// IsEmpty reports whether the value counts as unanswered for required-field
// validation: absent, a blank or whitespace-only string, or an empty
// selection list. File values are never empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case ValueAbsent:
		return true
	case ValueText:
		return strings.TrimSpace(v.text) == ""
	case ValueMulti:
		return len(v.multi) == 0
	default:
		return false
	}
}

// fileEnvelope is the wire shape of a file value.
type fileEnvelope struct {
	File string `json:"file"`
}

// MarshalJSON encodes text as a JSON string, multi as a string array, file
// as {"file": dataURI} and absent as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return json.Marshal(v.text)
	case ValueMulti:
		return json.Marshal(v.multi)
	case ValueFile:
		return json.Marshal(fileEnvelope{File: v.file})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the shapes produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Value{}
		return nil
	}

	switch {
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case strings.HasPrefix(trimmed, "["):
		var ss []string
		if err := json.Unmarshal(data, &ss); err != nil {
			return err
		}
		*v = MultiValue(ss...)
	case strings.HasPrefix(trimmed, "{"):
		var env fileEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return err
		}
		*v = FileValue(env.File)
	default:
		return fmt.Errorf("unsupported answer value %s", trimmed)
	}
	return nil
}

// String renders the value the way the exported document does: multi values
// comma-joined, absent values as an explicit placeholder.
func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueMulti:
		return strings.Join(v.multi, ", ")
	case ValueFile:
		return v.file
	default:
		return "No answer provided"
	}
}
