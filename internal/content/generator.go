package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/tutorloop/internal/llm"
)

// Generator writes the content for one lesson turn.
type Generator interface {
	// Generate returns the decoded turn for req. It does not run the
	// validators; a reply that cannot be decoded comes back as a
	// *ValidationError so it can be corrected like any other rejection.
	Generate(ctx context.Context, req Request) (*Payload, error)
}

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for one turn.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.5,
	}
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// NewGenerator creates an LLMGenerator.
func NewGenerator(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate asks the model for one turn. When req carries a correction, the
// rejected reply and the reason are sent back as a follow-up exchange.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*Payload, error) {
	ctx = llm.WithPurpose(ctx, "turn-"+string(req.Phase))
	if req.SessionID != "" {
		ctx = llm.WithSession(ctx, req.SessionID)
	}

	msgs := []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req)}}
	switch {
	case req.Correction != "" && len(req.Rejected) == 0:
		msgs[0].Content += "\n\n" + buildCorrection(req.Correction)
	case req.Correction != "":
		msgs = append(msgs,
			llm.Message{Role: llm.RoleAssistant, Content: string(req.Rejected)},
			llm.Message{Role: llm.RoleUser, Content: buildCorrection(req.Correction)},
		)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    msgs,
		Schema:      TurnSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		var (
			inv    *llm.ErrInvalidResponse
			maxTok *llm.ErrMaxTokensExceeded
		)
		switch {
		case errors.As(err, &inv):
			return nil, &rejectedError{
				ValidationError: ValidationError{Validator: "schema", Message: inv.Error(), Retryable: true},
				raw:             inv.Content,
			}
		case errors.As(err, &maxTok):
			return nil, &rejectedError{
				ValidationError: ValidationError{Validator: "length", Message: "reply was cut off at the token limit, write a shorter turn", Retryable: true},
				raw:             maxTok.Content,
			}
		}
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	return Decode(resp.Content)
}

// Decode parses a model reply into a Payload and normalizes option ids.
func Decode(raw []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &rejectedError{
			ValidationError: ValidationError{Validator: "decode", Message: "reply is not a valid turn object: " + err.Error(), Retryable: true},
			raw:             raw,
		}
	}
	for i := range p.Interface.Options {
		p.Interface.Options[i].ID = strings.TrimSpace(p.Interface.Options[i].ID)
	}
	p.CorrectAnswerID = strings.TrimSpace(p.CorrectAnswerID)
	p.Raw = append(json.RawMessage(nil), raw...)
	return &p, nil
}

// rejectedError is a ValidationError raised before a Payload exists. It
// keeps the raw reply for the corrective retry.
type rejectedError struct {
	ValidationError
	raw []byte
}

func (e *rejectedError) Unwrap() error { return &e.ValidationError }

// RejectedContent returns the raw reply carried by err, if any.
func RejectedContent(err error) []byte {
	var r *rejectedError
	if errors.As(err, &r) {
		return r.raw
	}
	return nil
}
