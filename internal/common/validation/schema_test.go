// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemSchema = `{
  "type": "object",
  "properties": {
    "itemId": {"type": "string", "minLength": 1},
    "itemIds": {"type": "array", "items": {"type": "string"}}
  },
  "anyOf": [{"required": ["itemId"]}, {"required": ["itemIds"]}]
}`

func TestSchema_ValidateJSON(t *testing.T) {
	s := MustCompile(itemSchema)

	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"single id", `{"itemId":"food-1"}`, true},
		{"batch ids", `{"itemIds":["a","b"]}`, true},
		{"neither", `{}`, false},
		{"empty id", `{"itemId":""}`, false},
		{"wrong type", `{"itemIds":"a"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.ValidateJSON(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				assert.NotEmpty(t, res.Errors)
				assert.NotEmpty(t, FormatValidationErrors(res.Errors))
			}
		})
	}
}

func TestSchema_MalformedDocument(t *testing.T) {
	s := MustCompile(itemSchema)
	_, err := s.ValidateJSON(`{"itemId":`)
	assert.Error(t, err)
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`not json`) })
	assert.Equal(t, "", FormatValidationErrors(nil))
}
