package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer(t *testing.T) {
	sanitizer := NewSanitizer()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text untouched", input: "12 Main Street", expected: "12 Main Street"},
		{name: "script removed with content", input: "<script>alert('x')</script>Ring twice", expected: "Ring twice"},
		{name: "tags stripped", input: "<b>Extra</b> <i>ketchup</i>", expected: "Extra ketchup"},
		{name: "event handler dropped", input: `<img src=x onerror="alert(1)">Door B`, expected: "Door B"},
		{name: "encoded markup decoded then stripped", input: "&lt;script&gt;alert(1)&lt;/script&gt;Hi", expected: "Hi"},
		{name: "double encoded markup stripped", input: "&amp;lt;b&amp;gt;nested&amp;lt;/b&amp;gt;", expected: "nested"},
		{name: "ampersand kept escaped", input: "Tom & Jerry", expected: "Tom &amp; Jerry"},
		{name: "surrounding space trimmed", input: "   near the park  ", expected: "near the park"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizer.Sanitize(tt.input))
		})
	}
}

func TestSanitizerIsIdempotent(t *testing.T) {
	sanitizer := NewSanitizer()
	inputs := []string{
		"Tom & Jerry's <b>diner</b>",
		"a < b > c",
		"&amp;lt;b&amp;gt;nested&amp;lt;/b&amp;gt;",
		`"quoted" <a href="javascript:alert(1)">link</a>`,
		"&amp;amp;amp; triple",
	}

	for _, input := range inputs {
		once := sanitizer.Sanitize(input)
		assert.Equal(t, once, sanitizer.Sanitize(once), "input %q", input)
		assert.NotContains(t, once, "<")
	}
}

func TestSanitizePtr(t *testing.T) {
	sanitizer := NewSanitizer()

	assert.Nil(t, sanitizePtr(sanitizer, nil))

	blank := "<p> </p>"
	assert.Nil(t, sanitizePtr(sanitizer, &blank))

	note := "<em>no onions</em>"
	got := sanitizePtr(sanitizer, &note)
	if assert.NotNil(t, got) {
		assert.Equal(t, "no onions", *got)
	}
}
