package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AddError appends a field violation and marks the result invalid.
func (vr *ValidationResult) AddError(field, message, code string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message, Code: code})
	vr.Valid = false
}

// Merge folds another result's errors into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for _, e := range other.Errors {
		vr.AddError(e.Field, e.Message, e.Code)
	}
}

// NewResult returns a valid, empty result.
func NewResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

// ValidateDocument runs a JSON Schema over an already-decoded document and
// converts schema violations into per-field errors.
func ValidateDocument(document map[string]interface{}, schemaJSON string) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}

	vr := NewResult()
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		vr.AddError(field, desc.Description(), schemaErrorCode(desc.Type()))
	}
	return vr, nil
}

func schemaErrorCode(schemaType string) string {
	switch schemaType {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "invalid_type":
		return "INVALID_TYPE"
	case "additional_property_not_allowed":
		return "EXTRA_FIELD"
	case "enum":
		return "INVALID_ENUM_VALUE"
	default:
		return strings.ToUpper(schemaType)
	}
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
		if err.Field == field {
			return true
		}
	}
	return false
}

// ==========================
// Value Coercion
// ==========================

// CoerceFloat accepts a JSON number or a numeric-looking string (commas and
// surrounding whitespace tolerated) and returns it as float64.
func CoerceFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		cleaned := strings.ReplaceAll(v, ",", "")
		cleaned = strings.TrimSpace(cleaned)
		return strconv.ParseFloat(cleaned, 64)
	default:
		return 0, fmt.Errorf("not a number: %T", raw)
	}
}

// CoerceInt accepts a JSON number or a numeric-looking string and returns it
// as int, truncating any fractional part the way the number arrived.
func CoerceInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		cleaned := strings.ReplaceAll(v, ",", "")
		cleaned = strings.TrimSpace(cleaned)
		return strconv.Atoi(cleaned)
	default:
		return 0, fmt.Errorf("not a number: %T", raw)
	}
}

// CoerceBool accepts only an actual JSON boolean.
func CoerceBool(raw interface{}) (bool, error) {
	if b, ok := raw.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("not a boolean: %T", raw)
}
