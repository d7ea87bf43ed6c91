package main

import "fmt"

// ValidateResults checks an extract against the template schema and
// returns the issues found, in field order. Validation never fails the
// pipeline; it only classifies.
func ValidateResults(results []ExtractedField, schema *TemplateSchema) []ValidationIssue {
	var issues []ValidationIssue
	defaults := schema.ValidationRules

	seen := make(map[string]bool, len(results))
	for _, field := range results {
		for _, name := range defaults.RequiredFields {
			if !hasRequiredField(field, name) {
				issues = append(issues, ValidationIssue{
					Severity: severityError,
					RowID:    field.RowID,
					Message:  fmt.Sprintf("missing required field %q", name),
				})
			}
		}

		// Only the second and later occurrences are flagged; the first
		// mapping for a row is taken at face value.
		if seen[field.RowID] {
			issues = append(issues, ValidationIssue{
				Severity: severityError,
				RowID:    field.RowID,
				Message:  fmt.Sprintf("duplicate row id %s", field.RowID),
			})
		}
		seen[field.RowID] = true

		row, known := schema.RowByID(field.RowID)
		if !known {
			// No row-specific rules to apply.
			issues = append(issues, ValidationIssue{
				Severity: severityWarning,
				RowID:    field.RowID,
				Message:  fmt.Sprintf("unknown row id %s: not declared in template schema", field.RowID),
			})
			continue
		}

		value, isNumber := field.NumericValue()
		if isNumber {
			if value < 0 && !allowsNegative(row, defaults) {
				issues = append(issues, ValidationIssue{
					Severity: severityError,
					RowID:    field.RowID,
					Message:  fmt.Sprintf("negative value %v not permitted for row %s", value, field.RowID),
				})
			}
			if row.Validation.MinValue != nil && value < *row.Validation.MinValue {
				issues = append(issues, ValidationIssue{
					Severity: severityError,
					RowID:    field.RowID,
					Message:  fmt.Sprintf("value %v below minimum %v for row %s", value, *row.Validation.MinValue, field.RowID),
				})
			}
		}
		if row.DataType == "numeric" && !isNumber {
			issues = append(issues, ValidationIssue{
				Severity: severityError,
				RowID:    field.RowID,
				Message:  fmt.Sprintf("row %s expects a numeric value, got %T", field.RowID, field.Value),
			})
		}
	}

	if len(results) < defaults.MinFields {
		issues = append(issues, ValidationIssue{
			Severity: severityWarning,
			RowID:    generalRowID,
			Message:  fmt.Sprintf("insufficient fields extracted: got %d, expected at least %d", len(results), defaults.MinFields),
		})
	}

	return issues
}

// allowsNegative: the row's own flag or the schema default may permit a
// negative value; either is enough.
func allowsNegative(row SchemaRow, defaults ValidationRules) bool {
	if row.Validation.AllowNegative != nil && *row.Validation.AllowNegative {
		return true
	}
	return defaults.AllowNegative
}

func hasRequiredField(field ExtractedField, name string) bool {
	switch name {
	case "row_id":
		return field.RowID != ""
	case "field_name":
		return field.FieldName != ""
	case "value":
		return field.Value != nil
	case "justification":
		return field.Justification != ""
	default:
		// The record has no such attribute, so it cannot be present.
		return false
	}
}
