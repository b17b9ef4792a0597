// Package batch validates inbound tagging batches.
package batch

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/taggate/internal/domain"
)

// Default limits for one batch.
const (
	DefaultMaxTexts      = 10
	DefaultMaxTextLength = 1000
)

// Request is a validated tagging batch.
type Request struct {
	Texts []string `json:"texts"`
}

// Validator enforces batch size and per-text length limits.
// Lengths are counted in characters (runes), not bytes.
type Validator struct {
	validate *validator.Validate
	rule     string
}

// NewValidator creates a Validator. Non-positive limits fall back to the defaults.
func NewValidator(maxTexts, maxTextLength int) *Validator {
	if maxTexts <= 0 {
		maxTexts = DefaultMaxTexts
	}
	if maxTextLength <= 0 {
		maxTextLength = DefaultMaxTextLength
	}
	return &Validator{
		validate: validator.New(),
		rule:     fmt.Sprintf("max=%d,dive,max=%d", maxTexts, maxTextLength),
	}
}

// Validate reports whether raw, a decoded JSON value, is an object whose "texts"
// field is an array of strings within the limits. The batch is accepted or
// rejected as a whole.
func (v *Validator) Validate(raw any) bool {
	texts, ok := textsOf(raw)
	if !ok {
		return false
	}
	return v.validate.Var(texts, v.rule) == nil
}

// Decode parses body and validates it.
// Returns domain.ErrMalformedJSON or domain.ErrInvalidBatch.
func (v *Validator) Decode(body []byte) (Request, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Request{}, fmt.Errorf("%w: %w", domain.ErrMalformedJSON, err)
	}
	if !v.Validate(raw) {
		return Request{}, domain.ErrInvalidBatch
	}
	texts, _ := textsOf(raw)
	return Request{Texts: texts}, nil
}

func textsOf(raw any) ([]string, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	field, ok := obj["texts"]
	if !ok {
		return nil, false
	}
	items, ok := field.([]any)
	if !ok {
		return nil, false
	}
	texts := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		texts[i] = s
	}
	return texts, true
}
