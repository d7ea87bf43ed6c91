package main

import (
	"strings"
	"testing"
)

func TestBuildExtractionPrompts(t *testing.T) {
	rules := []RuleRecord{
		{ID: "CA1-0010", Field: "Common Equity Tier 1 Capital", RowColumn: "R010, C010", Instruction: "Report CET1 items."},
		{ID: "CA1-0070", Field: "Goodwill Deduction", RowColumn: "R070, C010", Instruction: "Deduct goodwill."},
	}
	schema := testSchema()
	narrative := "The bank has £50m in CET1 capital and £5m of goodwill."

	systemPrompt, userPrompt := buildExtractionPrompts(rules, schema, narrative)

	for _, want := range []string{
		"regulatory reporting specialist",
		"Rule ID: CA1-0010",
		"Row/Column: R070, C010",
		"Instruction: Deduct goodwill.",
		`"id": "R010"`,
		"REQUIRED OUTPUT FORMAT",
		"no markdown",
		`"justification"`,
	} {
		if !strings.Contains(systemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}

	if !strings.Contains(userPrompt, narrative) {
		t.Fatalf("user prompt missing verbatim narrative: %q", userPrompt)
	}
}

func TestBuildExtractionPromptsDeterministic(t *testing.T) {
	rules := []RuleRecord{{ID: "CA1-0010", Field: "CET1", Instruction: "Report."}}
	schema := testSchema()

	s1, u1 := buildExtractionPrompts(rules, schema, "narrative")
	s2, u2 := buildExtractionPrompts(rules, schema, "narrative")
	if s1 != s2 || u1 != u2 {
		t.Fatal("expected identical prompts for identical inputs")
	}
}
