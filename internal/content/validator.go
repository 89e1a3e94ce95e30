package content

import "fmt"

// Validator checks a generated turn against the phase it was written for.
// Implementations are stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages and logs,
	// e.g. "structural", "phase-shape".
	Name() string

	// Validate returns nil if p is acceptable for req.
	Validate(p *Payload, req Request) *ValidationError
}

// ValidationError describes why a generated turn was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators is the standard chain, cheapest checks first.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&PhaseShapeValidator{},
		&OptionsValidator{},
	}
}

// Validate runs validators in order and returns the first failure.
func Validate(p *Payload, req Request, validators []Validator) *ValidationError {
	for _, v := range validators {
		if verr := v.Validate(p, req); verr != nil {
			return verr
		}
	}
	return nil
}
