// Package translation translates documents with machine translation engines.
// HTML above an engine's character limit is split into chunks with
// htmlchunk, translated chunk by chunk and merged back.
package translation

import (
	"context"
	"slices"
	"strings"
)

// Params describes one call to an engine.
type Params struct {
	Content string
	IsHTML  bool
	// Source may be empty to let the engine detect the language.
	Source string
	Target string
}

// Engine is a machine translation backend.
type Engine interface {
	Name() string
	// CharLimit is the largest content, in characters, accepted per call.
	CharLimit() int
	// Supports returns the engine's code for lang. Without strict, a dialect
	// such as "en-gb" may resolve to its base language.
	Supports(lang string, strict bool) (string, bool)
	Languages() []string
	Translate(ctx context.Context, p Params) (string, error)
}

// NormalizeLanguage lowercases a language code and uses '-' as separator.
func NormalizeLanguage(lang string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(lang)), "_", "-")
}

// matchLanguage resolves lang against a list of normalized codes.
func matchLanguage(codes []string, lang string, strict bool) (string, bool) {
	lang = NormalizeLanguage(lang)
	if slices.Contains(codes, lang) {
		return lang, true
	}
	if strict {
		return "", false
	}
	base, _, found := strings.Cut(lang, "-")
	if found && slices.Contains(codes, base) {
		return base, true
	}
	return "", false
}
