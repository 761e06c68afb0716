package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup and scripts from free text before it is stored
type Sanitizer interface {
	Sanitize(text string) string
}

type htmlSanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a sanitizer that removes every HTML element and
// escapes what is left. Entities are fully decoded first so that already
// sanitized text comes out unchanged.
func NewSanitizer() Sanitizer {
	return &htmlSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *htmlSanitizer) Sanitize(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(unescapeAll(text)))
}

// unescapeAll decodes entities until the text no longer changes.
// Each decoding pass that changes the text makes it shorter.
func unescapeAll(text string) string {
	for {
		decoded := html.UnescapeString(text)
		if decoded == text {
			return text
		}
		text = decoded
	}
}

// sanitizePtr sanitizes an optional field, mapping blank results to nil
func sanitizePtr(s Sanitizer, text *string) *string {
	if text == nil {
		return nil
	}
	clean := s.Sanitize(*text)
	if clean == "" {
		return nil
	}
	return &clean
}
