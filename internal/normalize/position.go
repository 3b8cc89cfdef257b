package normalize

import (
	"strings"

	"textchecker/internal/models"
)

// Locate returns the byte offset of item.Original in source.
//
// A unique direct match is returned as is. When Original is missing or
// occurs more than once, the search is anchored at item.Context so a repeated
// word maps to the occurrence the model meant. When nothing matches, Locate
// returns 0, which is indistinguishable from a genuine match at the first
// byte; use CorrectionItem.Located to tell them apart.
func Locate(item models.CorrectionItem, source string) int {
	if item.Original == "" {
		return 0
	}

	direct := strings.Index(source, item.Original)
	if direct >= 0 && !occursAfter(source, item.Original, direct) {
		return direct
	}

	if pos, ok := anchored(item, source); ok {
		return pos
	}
	if direct >= 0 {
		return direct
	}
	return 0
}

func occursAfter(source, needle string, first int) bool {
	return strings.Contains(source[first+1:], needle)
}

// anchored searches Original starting at the first occurrence of Context.
func anchored(item models.CorrectionItem, source string) (int, bool) {
	if item.Context == "" {
		return 0, false
	}
	ctx := strings.Index(source, item.Context)
	if ctx < 0 {
		return 0, false
	}
	rel := strings.Index(source[ctx:], item.Original)
	if rel < 0 {
		return 0, false
	}
	return ctx + rel, true
}
