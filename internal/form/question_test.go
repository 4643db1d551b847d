package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionList_Valid(t *testing.T) {
	raw := []byte(`[
		{"question": "Name", "required": true, "answerType": "TextBox"},
		{"question": "Color", "required": false, "answerType": "MultipleChoice", "answers": ["Red", "Blue"]},
		{"question": "Toppings", "required": true, "answerType": "Checkbox", "answers": ["Cheese", "Ham"]},
		{"question": "Country", "required": false, "answerType": "Dropdown", "answers": []},
		{"question": "Photo", "required": false, "answerType": "FileUpload"},
		{"question": "Birthday", "required": false, "answerType": "DatePicker"},
		{"question": "Alarm", "required": false, "answerType": "TimePicker"}
	]`)

	list, err := ParseQuestionList(raw)
	require.NoError(t, err)
	require.Len(t, list, 7)

	// Variant tags are preserved exactly, in order.
	assert.Equal(t, AnswerTypeTextBox, list[0].AnswerType)
	assert.Equal(t, AnswerTypeMultipleChoice, list[1].AnswerType)
	assert.Equal(t, AnswerTypeCheckbox, list[2].AnswerType)
	assert.Equal(t, AnswerTypeDropdown, list[3].AnswerType)
	assert.Equal(t, AnswerTypeFileUpload, list[4].AnswerType)
	assert.Equal(t, AnswerTypeDatePicker, list[5].AnswerType)
	assert.Equal(t, AnswerTypeTimePicker, list[6].AnswerType)

	assert.Equal(t, "Name", list[0].Question)
	assert.True(t, list[0].Required)
	assert.Equal(t, []string{"Red", "Blue"}, list[1].Answers)
	assert.Empty(t, list[3].Answers)
	assert.True(t, list[1].HasOptions())
	assert.False(t, list[0].HasOptions())
	assert.True(t, list[2].IsMulti())
}

func TestParseQuestionList_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantIndex int
		wantField string
	}{
		{
			name:      "not an array",
			raw:       `{"question": "Name"}`,
			wantIndex: -1,
		},
		{
			name:      "unknown answer type",
			raw:       `[{"question": "Name", "required": true, "answerType": "ImageUpload"}]`,
			wantIndex: 0,
			wantField: "answerType",
		},
		{
			name:      "missing answerType",
			raw:       `[{"question": "Name", "required": true}]`,
			wantIndex: 0,
			wantField: "answerType",
		},
		{
			name:      "missing question",
			raw:       `[{"required": true, "answerType": "TextBox"}]`,
			wantIndex: 0,
			wantField: "question",
		},
		{
			name:      "question not a string",
			raw:       `[{"question": 7, "required": true, "answerType": "TextBox"}]`,
			wantIndex: 0,
			wantField: "question",
		},
		{
			name:      "question null",
			raw:       `[{"question": null, "required": true, "answerType": "TextBox"}]`,
			wantIndex: 0,
			wantField: "question",
		},
		{
			name:      "required not a boolean",
			raw:       `[{"question": "Name", "required": "yes", "answerType": "TextBox"}]`,
			wantIndex: 0,
			wantField: "required",
		},
		{
			name:      "required null",
			raw:       `[{"question": "Name", "required": null, "answerType": "TextBox"}]`,
			wantIndex: 0,
			wantField: "required",
		},
		{
			name:      "answerType null",
			raw:       `[{"question": "Name", "required": true, "answerType": null}]`,
			wantIndex: 0,
			wantField: "answerType",
		},
		{
			name:      "every field null",
			raw:       `[{"question": null, "required": null, "answerType": "TextBox"}]`,
			wantIndex: 0,
			wantField: "question",
		},
		{
			name:      "choice variant missing answers",
			raw:       `[{"question": "Color", "required": true, "answerType": "MultipleChoice"}]`,
			wantIndex: 0,
			wantField: "answers",
		},
		{
			name:      "answers not an array of strings",
			raw:       `[{"question": "Color", "required": true, "answerType": "Dropdown", "answers": [1, 2]}]`,
			wantIndex: 0,
			wantField: "answers",
		},
		{
			name:      "answers null",
			raw:       `[{"question": "Color", "required": true, "answerType": "Checkbox", "answers": null}]`,
			wantIndex: 0,
			wantField: "answers",
		},
		{
			name:      "null answers element",
			raw:       `[{"question": "Color", "required": true, "answerType": "Checkbox", "answers": ["Red", null]}]`,
			wantIndex: 0,
			wantField: "answers",
		},
		{
			name: "later element rejects whole list",
			raw: `[
				{"question": "Name", "required": true, "answerType": "TextBox"},
				{"question": "Bad", "required": true, "answerType": "Nope"}
			]`,
			wantIndex: 1,
			wantField: "answerType",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := ParseQuestionList([]byte(tt.raw))

			// Never a partially-populated result.
			assert.Nil(t, list)
			require.Error(t, err)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.wantIndex, schemaErr.Index)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, schemaErr.Field)
			}
		})
	}
}

func TestParseQuestionList_IgnoresUnknownFields(t *testing.T) {
	raw := []byte(`[{"question": "Name", "required": true, "answerType": "TextBox", "hint": "full name"}]`)

	list, err := ParseQuestionList(raw)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Name", list[0].Question)
}
