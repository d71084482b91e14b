// Package phrase_counter implements the category counter: occurrence counting
// of curated legal phrases over judgment text, grouped by dictionary category.
package phrase_counter

import (
	"regexp"
	"strings"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/dictionary"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
)

// CategoryCounts maps category names to occurrence totals.  A valid counts
// map carries an entry for every dictionary category, zero included.
type CategoryCounts map[string]int

// Total returns the sum over all categories.
func (c CategoryCounts) Total() int {
	sum := 0
	for _, n := range c {
		sum += n
	}
	return sum
}

// Merge adds other's counts into c.
func (c CategoryCounts) Merge(other CategoryCounts) {
	for category, n := range other {
		c[category] += n
	}
}

// Occurrence records a single phrase match with its surrounding context for
// auditability.
type Occurrence struct {
	Category string `json:"category"`
	Phrase   string `json:"phrase"`
	Position int    `json:"position"`
	Context  string `json:"context"`
}

// separatorClass matches any run of the separators treated as interchangeable
// inside multi-word phrases: whitespace, hyphens, underscores.
const separatorClass = `[\s\-_]+`

// compiledPhrase pairs a dictionary phrase with its tolerant matcher.
type compiledPhrase struct {
	phrase string
	re     *regexp.Regexp
}

// Counter counts dictionary phrase occurrences in document text.  Matching is
// case-insensitive and separator-tolerant: "manguito rotador" matches
// "manguito-rotador" and "manguito_rotador" alike.  Matches per phrase are
// non-overlapping.
type Counter struct {
	dict     *dictionary.Dictionary
	compiled map[string][]compiledPhrase
}

// NewCounter validates dict and precompiles a matcher per phrase.
func NewCounter(dict *dictionary.Dictionary) (*Counter, error) {
	if err := dict.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDictionaryInvalid, "cannot build counter from invalid dictionary")
	}

	c := &Counter{
		dict:     dict,
		compiled: make(map[string][]compiledPhrase, dict.Len()),
	}
	for _, cat := range dict.Categories() {
		phrases := make([]compiledPhrase, 0, len(cat.Phrases))
		for _, p := range cat.Phrases {
			re, err := compilePhrase(p)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeDictionaryParse, "failed to compile phrase pattern").
					WithDetail("category=" + cat.Name + " phrase=" + p)
			}
			phrases = append(phrases, compiledPhrase{phrase: p, re: re})
		}
		c.compiled[cat.Name] = phrases
	}
	return c, nil
}

// compilePhrase turns a dictionary phrase into a case-insensitive regexp in
// which any separator run in the phrase matches any separator run in the text.
func compilePhrase(phrase string) (*regexp.Regexp, error) {
	tokens := splitTokens(phrase)
	escaped := make([]string, len(tokens))
	for i, tok := range tokens {
		escaped[i] = regexp.QuoteMeta(tok)
	}
	return regexp.Compile(`(?i)` + strings.Join(escaped, separatorClass))
}

// splitTokens splits a phrase on the interchangeable separators.
func splitTokens(phrase string) []string {
	return strings.FieldsFunc(phrase, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '-' || r == '_'
	})
}

// Count returns occurrence totals per category.  Every dictionary category is
// present in the result, zero included.  Counting is idempotent: the same
// content always yields the same counts.
func (c *Counter) Count(content string) CategoryCounts {
	counts := make(CategoryCounts, c.dict.Len())
	for _, cat := range c.dict.Categories() {
		total := 0
		for _, cp := range c.compiled[cat.Name] {
			total += len(cp.re.FindAllStringIndex(content, -1))
		}
		counts[cat.Name] = total
	}
	return counts
}

// CountWithContexts counts occurrences and records a context snippet of
// radius runes on each side of every match.
func (c *Counter) CountWithContexts(content string, radius int) (CategoryCounts, []Occurrence) {
	counts := make(CategoryCounts, c.dict.Len())
	var occurrences []Occurrence
	runes := []rune(content)

	for _, cat := range c.dict.Categories() {
		total := 0
		for _, cp := range c.compiled[cat.Name] {
			for _, loc := range cp.re.FindAllStringIndex(content, -1) {
				total++
				occurrences = append(occurrences, Occurrence{
					Category: cat.Name,
					Phrase:   cp.phrase,
					Position: loc[0],
					Context:  snippet(content, runes, loc[0], loc[1], radius),
				})
			}
		}
		counts[cat.Name] = total
	}
	return counts, occurrences
}

// snippet extracts radius runes of context around the byte range [start, end).
func snippet(content string, runes []rune, start, end, radius int) string {
	if radius <= 0 {
		return content[start:end]
	}
	// Convert byte offsets to rune offsets.
	rStart := len([]rune(content[:start]))
	rEnd := rStart + len([]rune(content[start:end]))

	from := rStart - radius
	if from < 0 {
		from = 0
	}
	to := rEnd + radius
	if to > len(runes) {
		to = len(runes)
	}
	return string(runes[from:to])
}
