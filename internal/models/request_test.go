package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckTextRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		request     CheckTextRequest
		expectError bool
		errorMsg    string
	}{
		{
			name:    "valid request",
			request: CheckTextRequest{Text: "I has a apple.", Language: "english"},
		},
		{
			name:    "unlisted language is accepted",
			request: CheckTextRequest{Text: "Ich habe", Language: "german"},
		},
		{
			name:        "empty text",
			request:     CheckTextRequest{Language: "english"},
			expectError: true,
			errorMsg:    "Text is required",
		},
		{
			name:        "whitespace-only text",
			request:     CheckTextRequest{Text: " \n\t ", Language: "english"},
			expectError: true,
			errorMsg:    "Text is required",
		},
		{
			name:        "missing language",
			request:     CheckTextRequest{Text: "hello"},
			expectError: true,
			errorMsg:    "Language is required",
		},
		{
			name:    "language at the length cap",
			request: CheckTextRequest{Text: "hello", Language: strings.Repeat("a", MaxLanguageLength)},
		},
		{
			name:        "oversized language",
			request:     CheckTextRequest{Text: "hello", Language: strings.Repeat("a", MaxLanguageLength+1)},
			expectError: true,
			errorMsg:    "Language is too long",
		},
		{
			name:        "oversized language with padding trimmed first",
			request:     CheckTextRequest{Text: "hello", Language: "  " + strings.Repeat("x", 200) + "  "},
			expectError: true,
			errorMsg:    "Language is too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckTextRequest_Normalize(t *testing.T) {
	req := CheckTextRequest{Text: "  keep me  ", Language: "  English "}
	req.Normalize()

	assert.Equal(t, "english", req.Language)
	assert.Equal(t, "  keep me  ", req.Text)
}
