package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

// ==========================
// Required / Type Checks
// ==========================

func TestValidateInput_RequiredFields(t *testing.T) {
	schema := JSONSchema{
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]Property{
			"name": {Type: "string", MinLength: intPtr(1)},
		},
		AdditionalProperties: true,
	}

	tests := []struct {
		name      string
		input     map[string]interface{}
		wantValid bool
		wantCode  string
	}{
		{
			name:      "missing required field",
			input:     map[string]interface{}{},
			wantValid: false,
			wantCode:  "REQUIRED_FIELD_MISSING",
		},
		{
			name:      "empty required string",
			input:     map[string]interface{}{"name": ""},
			wantValid: false,
			wantCode:  "MIN_LENGTH_VIOLATION",
		},
		{
			name:      "wrong type",
			input:     map[string]interface{}{"name": 42.0},
			wantValid: false,
			wantCode:  "INVALID_TYPE",
		},
		{
			name:      "valid",
			input:     map[string]interface{}{"name": "Ali"},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, schema)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantCode != "" {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.wantCode, result.Errors[0].Code)
			}
		})
	}
}

// ==========================
// Collect-All Semantics
// ==========================

func TestValidateInput_CollectsEveryViolation(t *testing.T) {
	schema := JSONSchema{
		Type:     "object",
		Required: []string{"a", "b", "c"},
		Properties: map[string]Property{
			"a": {Type: "string", MinLength: intPtr(1)},
			"b": {Type: "string", MinLength: intPtr(1)},
			"c": {Type: "string", MinLength: intPtr(1)},
		},
		AdditionalProperties: true,
	}

	result := ValidateInput(map[string]interface{}{"a": ""}, schema)

	require.False(t, result.Valid)
	// one MIN_LENGTH for a, two REQUIRED for b and c
	assert.Len(t, result.Errors, 3)
	assert.True(t, result.HasErrors("a"))
	assert.True(t, result.HasErrors("b"))
	assert.True(t, result.HasErrors("c"))
}

// ==========================
// Pattern / Enum
// ==========================

func TestValidateInput_PatternAndEnum(t *testing.T) {
	schema := JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"phone":    {Type: "string", Pattern: strPtr(`^09\d{9}$`)},
			"relation": {Type: "string", Enum: []string{"a", "b"}},
		},
		AdditionalProperties: true,
	}

	result := ValidateInput(map[string]interface{}{
		"phone":    "0912345678", // 10 digits, too short
		"relation": "A",          // case-sensitive
	}, schema)

	require.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
	assert.True(t, result.HasErrors("phone"))
	assert.True(t, result.HasErrors("relation"))
}

func TestValidateInput_MessageOverride(t *testing.T) {
	schema := JSONSchema{
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]Property{
			"name": {Type: "string", MinLength: intPtr(1), Message: "custom message"},
		},
		AdditionalProperties: true,
	}

	result := ValidateInput(map[string]interface{}{"name": ""}, schema)
	require.False(t, result.Valid)
	assert.Equal(t, "custom message", result.Errors[0].Message)

	result = ValidateInput(map[string]interface{}{}, schema)
	require.False(t, result.Valid)
	assert.Equal(t, "custom message", result.Errors[0].Message)
}

// ==========================
// Arrays and Nested Objects
// ==========================

func TestValidateInput_MinItems(t *testing.T) {
	schema := JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"items": {Type: "array", MinItems: intPtr(1)},
		},
		AdditionalProperties: true,
	}

	result := ValidateInput(map[string]interface{}{"items": []interface{}{}}, schema)
	require.False(t, result.Valid)
	assert.Equal(t, "MIN_ITEMS_VIOLATION", result.Errors[0].Code)

	result = ValidateInput(map[string]interface{}{"items": []interface{}{"x"}}, schema)
	assert.True(t, result.Valid)
}

func TestValidateInput_NullableArrayItems(t *testing.T) {
	schema := JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"links": {
				Type:  "array",
				Items: &Property{Type: "string", Nullable: true},
			},
		},
		AdditionalProperties: true,
	}

	result := ValidateInput(map[string]interface{}{
		"links": []interface{}{"a", nil, ""},
	}, schema)
	assert.True(t, result.Valid)

	result = ValidateInput(map[string]interface{}{
		"links": []interface{}{"a", 1.0},
	}, schema)
	require.False(t, result.Valid)
	assert.Equal(t, "links[1]", result.Errors[0].Field)
}

func TestValidateInput_NestedObjectPaths(t *testing.T) {
	schema := JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"records": {
				Type: "array",
				Items: &Property{
					Type:     "object",
					Required: []string{"title"},
					Properties: map[string]Property{
						"title": {Type: "string", MinLength: intPtr(1)},
					},
				},
			},
		},
		AdditionalProperties: true,
	}

	result := ValidateInput(map[string]interface{}{
		"records": []interface{}{
			map[string]interface{}{"title": "ok"},
			map[string]interface{}{"title": ""},
			map[string]interface{}{},
		},
	}, schema)

	require.False(t, result.Valid)
	assert.True(t, result.HasErrors("records[1].title"))
	assert.True(t, result.HasErrors("records[2].title"))
	assert.False(t, result.HasErrors("records[0].title"))
}

// ==========================
// Result Helpers
// ==========================

func TestValidationResult_FieldMap(t *testing.T) {
	vr := &ValidationResult{
		Valid: false,
		Errors: []ValidationError{
			{Field: "a", Message: "first"},
			{Field: "a", Message: "second"},
			{Field: "b", Message: "other"},
		},
	}

	m := vr.FieldMap()
	assert.Len(t, m, 2)
	assert.Equal(t, "first", m["a"])
	assert.Equal(t, "other", m["b"])
}

func TestValidationResult_GetErrorMessages(t *testing.T) {
	vr := &ValidationResult{
		Errors: []ValidationError{
			{Field: "x", Message: "broken"},
		},
	}
	assert.Equal(t, []string{"x: broken"}, vr.GetErrorMessages())
}
