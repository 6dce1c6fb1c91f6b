// internal/models/answer.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// AnswerValue holds an applicant's response or a question's reference
// answer. Exactly which field is set depends on the question type:
// Bool for boolean, Choice for yes-no, SelectedOptions for multiple-choice
// and Text for text/essay.
//
// On the wire the value may arrive bare (true, "yes", ["a","b"], "free
// text") or as an object; both decode to the same struct.
type AnswerValue struct {
	Text            string   `json:"text,omitempty" yaml:"text,omitempty"`
	Bool            *bool    `json:"bool,omitempty" yaml:"bool,omitempty"`
	Choice          string   `json:"choice,omitempty" yaml:"choice,omitempty"`
	SelectedOptions []string `json:"selectedOptions,omitempty" yaml:"selectedOptions,omitempty"`
}

// ExpectedAnswer is a question's stored reference answer. It shares the
// answer shape so both sides compare field by field.
type ExpectedAnswer = AnswerValue

// BoolAnswer is a convenience constructor.
func BoolAnswer(b bool) *AnswerValue {
	return &AnswerValue{Bool: &b}
}

// OptionsAnswer is a convenience constructor.
func OptionsAnswer(opts ...string) *AnswerValue {
	return &AnswerValue{SelectedOptions: opts}
}

// IsEmpty is true when no field carries a value.
func (v *AnswerValue) IsEmpty() bool {
	if v == nil {
		return true
	}
	return v.Bool == nil && strings.TrimSpace(v.Text) == "" &&
		strings.TrimSpace(v.Choice) == "" && len(v.SelectedOptions) == 0
}

// BoolValue interprets the value as a boolean.
func (v *AnswerValue) BoolValue() (bool, bool) {
	if v == nil {
		return false, false
	}
	if v.Bool != nil {
		return *v.Bool, true
	}
	for _, s := range []string{v.Choice, v.Text} {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y":
			return true, true
		case "false", "no", "n":
			return false, true
		}
	}
	return false, false
}

// YesNoValue interprets the value as "yes" or "no".
func (v *AnswerValue) YesNoValue() (string, bool) {
	b, ok := v.BoolValue()
	if !ok {
		return "", false
	}
	if b {
		return "yes", true
	}
	return "no", true
}

// Options returns the selected options, falling back to a single choice.
func (v *AnswerValue) Options() []string {
	if v == nil {
		return nil
	}
	if len(v.SelectedOptions) > 0 {
		return v.SelectedOptions
	}
	if c := strings.TrimSpace(v.Choice); c != "" {
		return []string{c}
	}
	return nil
}

type answerValueObject AnswerValue

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '{':
		var obj answerValueObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*v = AnswerValue(obj)
		return nil
	case '[':
		var opts []string
		if err := json.Unmarshal(data, &opts); err != nil {
			return fmt.Errorf("answer options: %w", err)
		}
		*v = AnswerValue{SelectedOptions: opts}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = fromScalarString(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = AnswerValue{Bool: &b}
		return nil
	default:
		// numbers and anything else are kept as text
		*v = AnswerValue{Text: string(data)}
		return nil
	}
}

func (v *AnswerValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var obj answerValueObject
		if err := node.Decode(&obj); err != nil {
			return err
		}
		*v = AnswerValue(obj)
	case yaml.SequenceNode:
		var opts []string
		if err := node.Decode(&opts); err != nil {
			return err
		}
		*v = AnswerValue{SelectedOptions: opts}
	case yaml.ScalarNode:
		if node.Tag == "!!bool" {
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			*v = AnswerValue{Bool: &b}
			return nil
		}
		*v = fromScalarString(node.Value)
	}
	return nil
}

func fromScalarString(s string) AnswerValue {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "no":
		return AnswerValue{Choice: strings.ToLower(strings.TrimSpace(s))}
	}
	return AnswerValue{Text: s}
}

// Answer is an applicant's response to one question. Score is the
// operator-entered grade (0-100) for open-ended questions.
type Answer struct {
	QuestionID string       `json:"questionId" yaml:"questionId"`
	Value      *AnswerValue `json:"value,omitempty" yaml:"value,omitempty"`
	Score      *float64     `json:"score,omitempty" yaml:"score,omitempty"`
}
