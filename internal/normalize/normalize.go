// Package normalize turns raw language model output into a trusted
// CorrectionResult. Model output is treated as untrusted text: it may be
// wrapped in markdown fences, surrounded by prose, or not JSON at all.
// Normalize never fails; anything it cannot parse degrades to a fallback
// result that echoes the original text.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"textchecker/internal/models"
)

const (
	fallbackPrefix = "Failed to parse AI response"

	// maxExcerpt bounds how much of a bad response is written to the log.
	maxExcerpt = 200
)

// Normalize extracts the correction payload from raw and locates every
// correction in original.
func Normalize(raw, original string) *models.CorrectionResult {
	payload := stripFences(raw)
	if !isObject(payload) {
		if obj, ok := extractObject(payload); ok {
			payload = obj
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return fallback(raw, original, err.Error())
	}
	if fields == nil {
		return fallback(raw, original, "response is not a JSON object")
	}

	correctedText, err := stringValue(fields["correctedText"])
	if err != nil {
		return fallback(raw, original, err.Error())
	}

	result := &models.CorrectionResult{
		CorrectedText: correctedText,
		Corrections:   decodeCorrections(fields["corrections"], original),
	}
	result.HasChanges = len(result.Corrections) > 0
	return result
}

// stripFences trims whitespace and a leading and trailing markdown code fence.
// The opening fence may carry a language tag such as json.
func stripFences(s string) string {
	s = strings.TrimSpace(s)

	if rest, ok := strings.CutPrefix(s, "```"); ok {
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			tag := strings.TrimSpace(rest[:nl])
			if tag == "" || strings.EqualFold(tag, "json") {
				s = rest[nl+1:]
			}
		} else if len(rest) >= 4 && strings.EqualFold(rest[:4], "json") {
			s = rest[4:]
		} else {
			s = rest
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// isObject reports whether s is a single valid JSON object.
func isObject(s string) bool {
	return strings.HasPrefix(s, "{") && json.Valid([]byte(s))
}

// extractObject slices s from the first '{' to the last '}'.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func stringValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", errors.New("missing correctedText")
	}
	if raw[0] != '"' {
		return "", errors.New("correctedText is not a string")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("invalid correctedText: %w", err)
	}
	return s, nil
}

// decodeCorrections keeps every well-formed element of the corrections array.
// An absent or null array is empty; any other shape is coerced to empty.
func decodeCorrections(raw json.RawMessage, original string) []models.CorrectionItem {
	items := []models.CorrectionItem{}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return items
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		slog.Warn("Model returned corrections that are not an array; ignoring them",
			"error", err)
		return items
	}

	for i, elem := range elems {
		var obj map[string]any
		if err := json.Unmarshal(elem, &obj); err != nil || obj == nil {
			slog.Warn("Skipping malformed correction", "index", i)
			continue
		}

		item := models.CorrectionItem{
			Kind:        models.NormalizeKind(stringField(obj, "type")),
			Original:    stringField(obj, "original"),
			Corrected:   stringField(obj, "corrected"),
			Explanation: stringField(obj, "explanation"),
			Context:     stringField(obj, "context"),
		}
		if !item.Kind.IsKnown() {
			slog.Debug("Keeping correction with unknown type", "type", string(item.Kind))
		}
		item.Position = Locate(item, original)
		items = append(items, item)
	}
	return items
}

// stringField returns obj[key] when it is a string and "" otherwise.
func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func fallback(raw, original, detail string) *models.CorrectionResult {
	slog.Warn("Failed to parse model response, returning original text",
		"error", detail,
		"excerpt", excerpt(raw))
	return models.NewFallbackResult(original, fmt.Sprintf("%s: %s", fallbackPrefix, detail))
}

func excerpt(s string) string {
	if len(s) <= maxExcerpt {
		return s
	}
	return s[:maxExcerpt] + "..."
}
