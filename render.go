package main

import (
	"fmt"
	"strings"
)

// FormatExtractionResult renders a successful pipeline result as a Slack
// message: the row table, aggregate metrics, validation issues and the
// justification log.
func FormatExtractionResult(result PipelineResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*COREP C 01.00 — Reporting Extract*\n")
	fmt.Fprintf(&b, "Fields extracted: %d | Aggregate capital: %s\n\n", len(result.Results), formatGBP(result.AggregateValue()))

	if len(result.Results) == 0 {
		b.WriteString("_No capital components identified._\n")
	}
	for _, field := range result.Results {
		fmt.Fprintf(&b, "• `%s`  %s — %s\n", field.RowID, field.FieldName, formatFieldValue(field))
	}

	if len(result.Issues) > 0 {
		b.WriteString("\n*Validation*\n")
		for _, issue := range result.Issues {
			fmt.Fprintf(&b, "• [%s] %s: %s\n", issue.Severity, issue.RowID, issue.Message)
		}
	}

	if len(result.Results) > 0 {
		b.WriteString("\n*Justification & Audit Log*\n")
		for i, field := range result.Results {
			fmt.Fprintf(&b, "%d. `%s` %s — %s\n", i+1, field.RowID, field.FieldName, field.Justification)
		}
	}

	if len(result.Retrieved) > 0 {
		b.WriteString("\n*Rules consulted*\n")
		for _, rule := range result.Retrieved {
			fmt.Fprintf(&b, "• %s — %s\n", rule.ID, rule.Field)
		}
	}

	if result.Usage.TotalTokens() > 0 {
		fmt.Fprintf(&b, "\n_tokens in=%d out=%d_\n", result.Usage.InputTokens, result.Usage.OutputTokens)
	}

	return b.String()
}

func formatFieldValue(field ExtractedField) string {
	if v, ok := field.NumericValue(); ok {
		return formatGBP(v)
	}
	return fmt.Sprintf("%v (non-numeric)", field.Value)
}

// formatGBP renders an amount as £1,234,567.89.
func formatGBP(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	out := "£" + grouped.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
