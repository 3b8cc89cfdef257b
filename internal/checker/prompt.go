package checker

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"textchecker/internal/models"
)

const promptTemplate = `You are an expert %[1]s language editor. Analyze the following text for:
1. Spelling errors
2. Grammatical mistakes
3. Punctuation errors
4. Clarity improvements

Text to analyze:
"""
%[2]s
"""

Please provide:
1. A corrected version of the entire text
2. A detailed list of all corrections made

Format your response as JSON with this exact structure:
{
    "correctedText": "the full corrected text here",
    "corrections": [
        {
            "type": "spelling|grammar|punctuation|clarity",
            "original": "the original incorrect text",
            "corrected": "the corrected text",
            "explanation": "explanation of why this change was made",
            "context": "a few words of context around the error"
        }
    ]
}

If the text has no errors, return:
{
    "correctedText": "same as original",
    "corrections": []
}

IMPORTANT: Return ONLY the JSON object, no additional text or explanation.`

// BuildPrompt renders the instruction sent to the model for text in language.
func BuildPrompt(text, language string) string {
	return fmt.Sprintf(promptTemplate, LanguageName(language), text)
}

// LanguageName maps a language identifier to the name used in the prompt.
// Unknown identifiers are capitalised and passed through.
func LanguageName(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	switch language {
	case models.LanguageEnglish:
		return "English"
	case models.LanguageSlovak:
		return "Slovak"
	}

	r, size := utf8.DecodeRuneInString(language)
	if r == utf8.RuneError {
		return language
	}
	return string(unicode.ToUpper(r)) + language[size:]
}
