// Package models - Correction result types.
// This file defines the structured result returned for a text check and the
// per-issue correction records the language model reports.
package models

import "strings"

// CorrectionKind classifies a reported issue.
type CorrectionKind string

const (
	KindSpelling    CorrectionKind = "spelling"
	KindGrammar     CorrectionKind = "grammar"
	KindPunctuation CorrectionKind = "punctuation"
	KindClarity     CorrectionKind = "clarity"
)

// IsKnown reports whether k is one of the four kinds the prompt asks for.
// Unknown kinds are kept as reported; the front-end renders them generically.
func (k CorrectionKind) IsKnown() bool {
	switch k {
	case KindSpelling, KindGrammar, KindPunctuation, KindClarity:
		return true
	}
	return false
}

// NormalizeKind lowercases and trims a kind reported by the model.
func NormalizeKind(raw string) CorrectionKind {
	return CorrectionKind(strings.ToLower(strings.TrimSpace(raw)))
}

// CorrectionItem is a single issue found in the source text.
//
// Position is a byte offset into the source text where Original was located,
// or 0 when it could not be located. Because 0 is also a legitimate offset,
// callers that need a confirmed match should use Located.
type CorrectionItem struct {
	Kind        CorrectionKind `json:"type"`
	Original    string         `json:"original"`
	Corrected   string         `json:"corrected"`
	Explanation string         `json:"explanation"`
	Context     string         `json:"context"`
	Position    int            `json:"position"`
}

// Located reports whether source contains Original at Position.
func (c CorrectionItem) Located(source string) bool {
	if c.Original == "" || c.Position < 0 || c.Position > len(source) {
		return false
	}
	return strings.HasPrefix(source[c.Position:], c.Original)
}

// CorrectionResult is the response body of a successful check. Error is set
// only on the fallback path, in which case CorrectedText is the original
// input and HasChanges is false.
type CorrectionResult struct {
	CorrectedText string           `json:"correctedText"`
	Corrections   []CorrectionItem `json:"corrections"`
	HasChanges    bool             `json:"hasChanges"`
	Error         string           `json:"error,omitempty"`
}

// NewFallbackResult returns the safe result used when the model output cannot
// be trusted: the original text unchanged and no corrections.
func NewFallbackResult(original, reason string) *CorrectionResult {
	return &CorrectionResult{
		CorrectedText: original,
		Corrections:   []CorrectionItem{},
		HasChanges:    false,
		Error:         reason,
	}
}

// IsFallback reports whether the result came from the fallback path.
func (r *CorrectionResult) IsFallback() bool {
	return r.Error != ""
}
