// Package favorability classifies the outcome of a judgment for the claimant
// as favorable or unfavorable through an ordered chain of phrase rules, with
// provenance: every classification names the rule that produced it and the
// text snippet it matched.
package favorability

import (
	"regexp"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/outcome_predictor"
)

// Classification is the result of classifying one document.
type Classification struct {
	Outcome outcome_predictor.Outcome `json:"outcome"`
	// RuleID names the rule that decided the outcome; empty when no rule
	// matched.
	RuleID string `json:"rule_id,omitempty"`
	// Matched is the phrase the rule found in the content.
	Matched string `json:"matched,omitempty"`
	// Snippet is the surrounding text of the match, for auditability.
	Snippet string `json:"snippet,omitempty"`
}

// Rule matches a single marker phrase and assigns an outcome.  The phrase is
// anchored at a word boundary so "estimamos" never fires inside
// "desestimamos".
type Rule struct {
	ID      string
	Phrase  string
	Outcome outcome_predictor.Outcome
}

// Strategy decides the favorability of a document from its content.
// Implementations must be deterministic for the same content.
type Strategy interface {
	Classify(content string) Classification
}

// snippetRadius is the number of runes kept on each side of a match.
const snippetRadius = 60

// defaultRules is the production rule chain.  Order matters: the first match
// wins, so the dispositive formulas come before the weaker markers.
func defaultRules() []Rule {
	return []Rule{
		{ID: "fallo_estimacion", Phrase: "estimamos el recurso", Outcome: outcome_predictor.OutcomeFavorable},
		{ID: "fallo_estimacion_gerundio", Phrase: "estimando el recurso", Outcome: outcome_predictor.OutcomeFavorable},
		{ID: "fallo_estimacion_infinitivo", Phrase: "estimar el recurso", Outcome: outcome_predictor.OutcomeFavorable},
		{ID: "fallo_desestimacion", Phrase: "desestimamos el recurso", Outcome: outcome_predictor.OutcomeUnfavorable},
		{ID: "fallo_desestimacion_gerundio", Phrase: "desestimando el recurso", Outcome: outcome_predictor.OutcomeUnfavorable},
		{ID: "fallamos_estimamos", Phrase: "fallamos que estimamos", Outcome: outcome_predictor.OutcomeFavorable},
		{ID: "fallamos_desestimamos", Phrase: "fallamos que desestimamos", Outcome: outcome_predictor.OutcomeUnfavorable},
		{ID: "declaracion_derecho", Phrase: "declaramos el derecho", Outcome: outcome_predictor.OutcomeFavorable},
		{ID: "reconocimiento_derecho", Phrase: "reconocemos el derecho", Outcome: outcome_predictor.OutcomeFavorable},
		{ID: "absolucion", Phrase: "absolvemos", Outcome: outcome_predictor.OutcomeUnfavorable},
		{ID: "condena_inss", Phrase: "condenamos al inss", Outcome: outcome_predictor.OutcomeFavorable},
	}
}

// compiledRule pairs a rule with its boundary-anchored matcher.
type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// RuleClassifier applies an ordered rule chain; the first matching rule wins.
type RuleClassifier struct {
	rules []compiledRule
}

// NewRuleClassifier builds a classifier with the production rule chain.
func NewRuleClassifier() *RuleClassifier {
	c, _ := NewRuleClassifierWithRules(defaultRules())
	return c
}

// NewRuleClassifierWithRules builds a classifier with a custom chain,
// evaluated in the given order.
func NewRuleClassifierWithRules(rules []Rule) (*RuleClassifier, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(r.Phrase))
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{rule: r, re: re})
	}
	return &RuleClassifier{rules: compiled}, nil
}

// Rules returns the chain in evaluation order.
func (c *RuleClassifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, cr := range c.rules {
		out[i] = cr.rule
	}
	return out
}

// Classify runs the chain over content.  Matching is case-insensitive and
// word-boundary anchored.  When no rule matches, the outcome is unknown and
// the document is excluded from the predictor's weighted tallies.
func (c *RuleClassifier) Classify(content string) Classification {
	for _, cr := range c.rules {
		loc := cr.re.FindStringIndex(content)
		if loc == nil {
			continue
		}
		return Classification{
			Outcome: cr.rule.Outcome,
			RuleID:  cr.rule.ID,
			Matched: cr.rule.Phrase,
			Snippet: snippet(content, loc[0], loc[1]),
		}
	}
	return Classification{Outcome: outcome_predictor.OutcomeUnknown}
}

// snippet extracts up to snippetRadius runes of context around the byte range
// [start, end).
func snippet(content string, start, end int) string {
	runes := []rune(content)
	rStart := len([]rune(content[:start]))
	rEnd := rStart + len([]rune(content[start:end]))

	from := rStart - snippetRadius
	if from < 0 {
		from = 0
	}
	to := rEnd + snippetRadius
	if to > len(runes) {
		to = len(runes)
	}
	return string(runes[from:to])
}
