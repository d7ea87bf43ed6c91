package main

import (
	"sort"
	"strings"
)

// retrievalKeywords is the fixed capital-structure vocabulary used to
// score rule relevance. Matching is plain substring containment on
// lower-cased text; this is a cheap lexical filter to bound prompt size,
// not semantic search.
var retrievalKeywords = []string{
	"cet1",
	"common equity",
	"tier 1",
	"tier 2",
	"additional tier 1",
	"own funds",
	"goodwill",
	"intangible",
	"deferred tax",
	"retained earnings",
	"share premium",
	"capital instrument",
	"minority interest",
	"deduction",
	"prudential filter",
	"reserves",
	"subordinated",
	"transitional",
	"grandfathered",
	"accumulated other comprehensive income",
}

type scoredRule struct {
	rule  RuleRecord
	score int
}

// RetrieveRules scores every rule against the narrative and returns the
// top RetrievalTopN, most relevant first. A keyword found in a rule is
// worth KeywordMatchScore when the narrative mentions it too, else
// KeywordPresentScore; a row/column token mentioned verbatim in the
// narrative adds RowColumnBonus. Rules scoring zero are dropped. If no
// rule scores, the first RetrievalFallbackN rules are returned in corpus
// order so the prompt is never built without regulatory grounding.
func RetrieveRules(narrative string, rules []RuleRecord, cfg Config) []RuleRecord {
	lowered := strings.ToLower(narrative)

	var scored []scoredRule
	for _, rule := range rules {
		score := scoreRule(rule, lowered, cfg)
		if score > 0 {
			scored = append(scored, scoredRule{rule: rule, score: score})
		}
	}

	if len(scored) == 0 {
		n := cfg.RetrievalFallbackN
		if n > len(rules) {
			n = len(rules)
		}
		return append([]RuleRecord(nil), rules[:n]...)
	}

	// Stable sort keeps corpus order as the tie-break.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > cfg.RetrievalTopN {
		scored = scored[:cfg.RetrievalTopN]
	}

	out := make([]RuleRecord, len(scored))
	for i, s := range scored {
		out[i] = s.rule
	}
	return out
}

func scoreRule(rule RuleRecord, loweredNarrative string, cfg Config) int {
	searchable := strings.ToLower(rule.Field + " " + rule.Instruction)

	score := 0
	for _, keyword := range retrievalKeywords {
		if !strings.Contains(searchable, keyword) {
			continue
		}
		if strings.Contains(loweredNarrative, keyword) {
			score += cfg.KeywordMatchScore
		} else {
			// Present in the rule but not mentioned by the user: weaker signal.
			score += cfg.KeywordPresentScore
		}
	}

	for _, token := range strings.Split(rule.RowColumn, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" && strings.Contains(loweredNarrative, token) {
			score += cfg.RowColumnBonus
			break
		}
	}

	return score
}
