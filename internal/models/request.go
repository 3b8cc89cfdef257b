// Package models - API request types and input validation.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Supported language identifiers with a dedicated display name. Any other
// identifier is accepted and passed to the model as-is.
const (
	LanguageEnglish = "english"
	LanguageSlovak  = "slovak"
)

// MaxLanguageLength caps the language identifier in bytes. The value is
// interpolated into the prompt and used as a history key.
const MaxLanguageLength = 64

// CheckTextRequest is the body of POST /check-text.
type CheckTextRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`

	// Populated by the HTTP layer, never from the body.
	ClientID   string `json:"-"`
	Credential string `json:"-"`
}

// Validate rejects whitespace-only text and a missing or oversized language.
func (r *CheckTextRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("Text is required")
	}
	language := strings.TrimSpace(r.Language)
	if language == "" {
		return errors.New("Language is required")
	}
	if len(language) > MaxLanguageLength {
		return fmt.Errorf("Language is too long (max %d bytes)", MaxLanguageLength)
	}
	return nil
}

// Normalize lowercases and trims the language identifier. Text is left
// untouched since correction positions are offsets into it.
func (r *CheckTextRequest) Normalize() {
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
}
