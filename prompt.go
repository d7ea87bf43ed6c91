package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// buildExtractionPrompts assembles the system and user prompts for one
// extraction call. Deterministic given its inputs; no side effects.
func buildExtractionPrompts(rules []RuleRecord, schema *TemplateSchema, narrative string) (string, string) {
	var ruleLines strings.Builder
	for _, rule := range rules {
		fmt.Fprintf(&ruleLines, "Rule ID: %s\nField: %s\nRow/Column: %s\nInstruction: %s\n\n",
			rule.ID, rule.Field, rule.RowColumn, rule.Instruction)
	}

	// Marshaling a plain struct cannot fail; ignore the error like any
	// other infallible encode.
	schemaJSON, _ := json.MarshalIndent(schema, "", "  ")

	systemPrompt := fmt.Sprintf(`You are a regulatory reporting specialist for UK banks. Extract capital and own funds data from the scenario and map it to COREP template C 01.00.

REGULATORY RULES:
%s
SCHEMA DEFINITION:
%s

INSTRUCTIONS:
1. Identify all relevant capital components mentioned in the scenario
2. Map each component to the correct row_id from the schema
3. Extract numeric values (convert text amounts like "£50m" to 50000000)
4. Provide the specific Rule ID that justifies each mapping
5. Output ONLY valid JSON in the exact format below (no markdown, no explanations)

REQUIRED OUTPUT FORMAT:
{
  "results": [
    {
      "row_id": "R010",
      "field_name": "Common Equity Tier 1 Capital",
      "value": 50000000.0,
      "justification": "CA1-0010"
    }
  ]
}`, ruleLines.String(), schemaJSON)

	userPrompt := "SCENARIO:\n" + narrative
	return systemPrompt, userPrompt
}
