package fieldtext

import (
	"regexp"
	"strings"
)

// Ordered fallbacks when no keyed pattern yields a product name.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:this is|this appears to be|appears to be|the image shows|the photo shows|i can see)\s+(?:a|an|the)?\s*([^.,\n]+)`),
	regexp.MustCompile(`(?i)(?:identified as|recognized as|looks like)\s+(?:a|an|the)?\s*([^.,\n]+)`),
}

// ProductName extracts the product name from model output, trying keyed
// extraction first and phrase-level patterns afterwards.
func ProductName(text string) (string, bool) {
	if name, ok := Extract(text, "product name", "product", "name", "item"); ok {
		return name, true
	}
	for _, pattern := range namePatterns {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		name := strings.TrimSpace(match[1])
		if name != "" {
			return name, true
		}
	}
	// A short first line with no sentence punctuation is usually a title.
	// Lines with a colon are labelled fields, not titles.
	if line := firstLine(text); line != "" && len(line) < 60 && !strings.ContainsAny(line, ".!?:") {
		return line, true
	}
	return "", false
}

// Description extracts a descriptive passage, falling back to the first
// substantial paragraph when no keyed value exists.
func Description(text string) (string, bool) {
	if desc, ok := Extract(text, "description", "overview", "about", "summary"); ok {
		return desc, true
	}
	for _, paragraph := range strings.Split(text, "\n\n") {
		trimmed := strings.TrimSpace(paragraph)
		if len(trimmed) > 40 {
			return trimmed, true
		}
	}
	return "", false
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
