package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// QuestionSchema is the wire shape accepted by the pre-screening-questions endpoints.
const QuestionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["jobPostId", "question", "type", "weight"],
  "properties": {
    "id":         {"type": "string"},
    "jobPostId":  {"type": "string", "minLength": 1},
    "question":   {"type": "string", "minLength": 1, "maxLength": 2000},
    "type":       {"enum": ["text", "multiple-choice", "yes-no", "boolean", "essay"]},
    "options":    {"type": "array", "items": {"type": "string", "minLength": 1}},
    "isKnockout": {"type": "boolean"},
    "weight":     {"type": "integer", "minimum": 1, "maximum": 10},
    "score":      {"type": "number", "minimum": 0, "maximum": 100},
    "correctAnswer": {
      "type": "object",
      "properties": {
        "text":            {"type": "string"},
        "bool":            {"type": "boolean"},
        "choice":          {"enum": ["yes", "no"]},
        "selectedOptions": {"type": "array", "items": {"type": "string"}}
      }
    }
  },
  "if":   {"properties": {"type": {"const": "multiple-choice"}}},
  "then": {"required": ["options"], "properties": {"options": {"minItems": 1}}}
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (r *ValidationResult) String() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(parts, "; ")
}

var (
	questionSchemaOnce sync.Once
	questionSchema     *gojsonschema.Schema
	questionSchemaErr  error
)

func compiledQuestionSchema() (*gojsonschema.Schema, error) {
	questionSchemaOnce.Do(func() {
		questionSchema, questionSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(QuestionSchema))
	})
	return questionSchema, questionSchemaErr
}

// ValidatePayload checks a raw question document against QuestionSchema.
func ValidatePayload(payload []byte) (*ValidationResult, error) {
	schema, err := compiledQuestionSchema()
	if err != nil {
		return nil, fmt.Errorf("compile question schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, nil
}

// ValidateQuestion runs the schema and the model's structural checks.
// Any violation is reported as QUESTION_VALIDATION_FAILED.
func ValidateQuestion(q models.ScreeningQuestion) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return errors.NewQuestionValidationError(err.Error())
	}

	result, err := ValidatePayload(payload)
	if err != nil {
		return err
	}
	if !result.Valid {
		return errors.NewQuestionValidationError(result.String())
	}

	if err := q.Validate(); err != nil {
		return errors.NewQuestionValidationError(err.Error())
	}
	return nil
}
