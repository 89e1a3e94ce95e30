package content

import (
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLen        = 120
	maxContentLen      = 4000
	maxInstructionsLen = 400
)

// StructuralValidator checks that required fields are present, within
// length limits, and have valid enum values.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Payload, _ Request) *ValidationError {
	ui := p.Interface
	if strings.TrimSpace(ui.Title) == "" {
		return v.fail("title is empty")
	}
	if utf8.RuneCountInString(ui.Title) > maxTitleLen {
		return v.fail("title exceeds 120 characters")
	}
	if strings.TrimSpace(ui.Content) == "" {
		return v.fail("content is empty")
	}
	if utf8.RuneCountInString(ui.Content) > maxContentLen {
		return v.fail("content exceeds 4000 characters")
	}
	if utf8.RuneCountInString(ui.Instructions) > maxInstructionsLen {
		return v.fail("instructions exceed 400 characters")
	}
	if !ui.InputType.Valid() {
		return v.fail(`input_type must be "continue", "multiple_choice", "text", or "none"`)
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}
