package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
)

// MinDocumentChars is the shortest trimmed text accepted for indexing.
const MinDocumentChars = 100

// Validator rejects document text that is empty, belongs to another document,
// or lacks the keywords expected for its identity.
type Validator struct {
	strict bool
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithStrict enables the required-keyword check for every document,
// not only documents whose rules ask for it.
func WithStrict() ValidatorOption {
	return func(v *Validator) {
		v.strict = true
	}
}

// NewValidator creates a validator.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks text against doc's rules. Rules are evaluated in order:
// minimum length, forbidden phrases, then required keywords in strict mode.
func (v *Validator) Validate(text string, doc domain.LegalDocument) error {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < MinDocumentChars {
		return fmt.Errorf("%w: %s: text too short or empty (%d chars)",
			domain.ErrValidationFailed, doc.Name, utf8.RuneCountInString(trimmed))
	}

	for _, phrase := range doc.Rules.Forbidden {
		if phrase != "" && strings.Contains(trimmed, phrase) {
			return fmt.Errorf("%w: %s: contains %q, text belongs to another document",
				domain.ErrValidationFailed, doc.Name, phrase)
		}
	}

	if (v.strict || doc.Rules.Strict) && len(doc.Rules.Required) > 0 {
		lower := strings.ToLower(trimmed)
		for _, keyword := range doc.Rules.Required {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return nil
			}
		}
		return fmt.Errorf("%w: %s: none of the expected keywords %v found",
			domain.ErrValidationFailed, doc.Name, doc.Rules.Required)
	}

	return nil
}

// Valid reports whether Validate passes.
func (v *Validator) Valid(text string, doc domain.LegalDocument) bool {
	return v.Validate(text, doc) == nil
}
