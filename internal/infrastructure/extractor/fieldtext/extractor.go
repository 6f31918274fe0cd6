// Package fieldtext recovers named fields from unstructured model output.
// It is a best-effort heuristic, not a grammar: a fixed chain of pattern
// families is tried per candidate key, so results are deterministic for a
// given input.
package fieldtext

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Pattern families tried in order for each key. %s is the quoted key.
var structuralFamilies = []string{
	`(?i)%s\s*:\s*([^\n]+)`,
	`(?i)%s\s*-\s*([^\n]+)`,
	`(?i)%s\s*=\s*([^\n]+)`,
	`(?i)%s\s+content\s*:\s*([^\n]+)`,
	`(?i)%s\s+information\s*:\s*([^\n]+)`,
	`(?i)\*\*\s*%s\s*\*\*\s*:?\s*([^\n]+)`,
	`(?is)<%s>(.*?)</%s>`,
	`(?im)^\s*%s\s*:\s*(.+)$`,
	`(?i)\|\s*%s\s*\|\s*([^|\n]+)`,
}

var listFamilies = []string{
	`(?im)^\s*•\s*%s\s*:\s*(.+)$`,
	`(?im)^\s*-\s*%s\s*:\s*(.+)$`,
	`(?im)^\s*\d+\.\s*%s\s*:\s*(.+)$`,
}

var numberUnitPattern = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:g|mg|kg|oz|kcal|cal|calories|grams?|%|percent)\b`)

var (
	patternMu       sync.Mutex
	compiledByKey   = map[string][]*regexp.Regexp{}
	listPatternsKey = map[string][]*regexp.Regexp{}
)

// Extract searches text for a value attached to key, then to each alternate
// key in order. The boolean reports presence: a false result means the field
// is absent, which is distinct from a legitimately empty matched string.
func Extract(text, key string, altKeys ...string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	keys := append([]string{key}, altKeys...)

	for _, k := range keys {
		if value, ok := matchFamilies(text, k, structuralPatterns(k)); ok {
			return value, true
		}
	}
	for _, k := range keys {
		if value, ok := matchFamilies(text, k, listPatterns(k)); ok {
			return value, true
		}
	}
	for _, k := range keys {
		if value, ok := scanSentences(text, k); ok {
			return value, true
		}
	}
	return "", false
}

func matchFamilies(text, key string, patterns []*regexp.Regexp) (string, bool) {
	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		value := strings.TrimSpace(match[1])
		if value != "" {
			return value, true
		}
	}
	return "", false
}

// scanSentences is the last-resort fallback: find a sentence mentioning the
// key, prefer a number+unit token from it, otherwise return the sentence
// itself when it is short enough to be a plausible value.
func scanSentences(text, key string) (string, bool) {
	lowerKey := strings.ToLower(key)
	for _, sentence := range splitSentences(text) {
		if !strings.Contains(strings.ToLower(sentence), lowerKey) {
			continue
		}
		if token := numberUnitPattern.FindString(sentence); token != "" {
			return strings.TrimSpace(token), true
		}
		trimmed := strings.TrimSpace(sentence)
		if len(trimmed) > 0 && len(trimmed) < 100 {
			return trimmed, true
		}
	}
	return "", false
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', '!', '?', '\n':
			return true
		default:
			return false
		}
	})
}

func structuralPatterns(key string) []*regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if patterns, ok := compiledByKey[key]; ok {
		return patterns
	}
	quoted := regexp.QuoteMeta(key)
	patterns := make([]*regexp.Regexp, 0, len(structuralFamilies))
	for _, family := range structuralFamilies {
		expr := family
		if strings.Count(family, "%s") == 2 {
			expr = fmt.Sprintf(family, quoted, quoted)
		} else {
			expr = fmt.Sprintf(family, quoted)
		}
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	compiledByKey[key] = patterns
	return patterns
}

func listPatterns(key string) []*regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if patterns, ok := listPatternsKey[key]; ok {
		return patterns
	}
	quoted := regexp.QuoteMeta(key)
	patterns := make([]*regexp.Regexp, 0, len(listFamilies))
	for _, family := range listFamilies {
		patterns = append(patterns, regexp.MustCompile(fmt.Sprintf(family, quoted)))
	}
	listPatternsKey[key] = patterns
	return patterns
}
