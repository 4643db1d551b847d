package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		empty bool
	}{
		{name: "absent", value: Value{}, empty: true},
		{name: "blank string", value: TextValue(""), empty: true},
		{name: "whitespace only", value: TextValue("   \t"), empty: true},
		{name: "text", value: TextValue("Ada"), empty: false},
		{name: "empty selection", value: MultiValue(), empty: true},
		{name: "selection", value: MultiValue("Cheese"), empty: false},
		{name: "file", value: FileValue("data:image/png;base64,AAAA"), empty: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.value.IsEmpty())
		})
	}
}

func TestValue_JSONRoundTrip(t *testing.T) {
	answers := map[int]Value{
		0: TextValue("Ada"),
		2: MultiValue("Cheese", "Ham"),
		3: FileValue("data:image/png;base64,AAAA"),
	}

	data, err := json.Marshal(answers)
	require.NoError(t, err)

	var decoded map[int]Value
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, ValueText, decoded[0].Kind())
	assert.Equal(t, "Ada", decoded[0].Text())
	assert.Equal(t, []string{"Cheese", "Ham"}, decoded[2].Multi())
	assert.Equal(t, ValueFile, decoded[3].Kind())
	assert.Equal(t, "data:image/png;base64,AAAA", decoded[3].File())
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "Ada", TextValue("Ada").String())
	assert.Equal(t, "Cheese, Ham", MultiValue("Cheese", "Ham").String())
	assert.Equal(t, "No answer provided", Value{}.String())
}
