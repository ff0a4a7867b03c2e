package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema declares a payload schema in Go. It marshals to standard JSON
// Schema and is evaluated by gojsonschema.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateJSON validates a raw JSON document.
func ValidateJSON(schema JSONSchema, document []byte) *ValidationResult {
	return validate(schema, gojsonschema.NewBytesLoader(document))
}

// ValidateValue validates a Go value (struct or map) after JSON encoding.
func ValidateValue(schema JSONSchema, value interface{}) *ValidationResult {
	return validate(schema, gojsonschema.NewGoLoader(value))
}

func validate(schema JSONSchema, document gojsonschema.JSONLoader) *ValidationResult {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), document)
	if err != nil {
		return &ValidationResult{
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_DOCUMENT",
			}},
		}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out
}

// Err returns nil for a valid result, otherwise one error listing every
// violation.
func (vr *ValidationResult) Err() error {
	if vr.Valid {
		return nil
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(vr.GetErrorMessages(), "; "))
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}

func IntPtr(i int) *int {
	return &i
}

func BoolPtr(b bool) *bool {
	return &b
}
