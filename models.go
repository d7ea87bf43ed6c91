package main

// RuleRecord is one discrete rule parsed from the PRA rulebook extract.
type RuleRecord struct {
	ID          string // e.g. "CA1-0010"
	Field       string // template field the rule governs
	RowColumn   string // comma-separated row/column references, e.g. "R010, C010"
	Instruction string
}

// SchemaRow describes one reportable line item of the C 01.00 template.
type SchemaRow struct {
	ID         string        `json:"id"` // e.g. "R010"
	Name       string        `json:"name"`
	DataType   string        `json:"data_type"` // "numeric" for amount rows
	Validation RowValidation `json:"validation"`
}

// RowValidation carries per-row constraints. Pointers distinguish
// "not declared" from an explicit false/zero.
type RowValidation struct {
	AllowNegative *bool    `json:"allow_negative,omitempty"`
	MinValue      *float64 `json:"min_value,omitempty"`
}

// ValidationRules are the schema-level defaults applied across all rows.
type ValidationRules struct {
	RequiredFields []string `json:"required_fields"`
	AllowNegative  bool     `json:"allow_negative"`
	MinFields      int      `json:"min_fields"`
}

// TemplateSchema is the declarative description of the reporting template.
type TemplateSchema struct {
	Template        string          `json:"template"`
	ValidationRules ValidationRules `json:"validation_rules"`
	Rows            []SchemaRow     `json:"rows"`
}

// RowByID returns the schema row with the given id, if declared.
func (s *TemplateSchema) RowByID(id string) (SchemaRow, bool) {
	for _, row := range s.Rows {
		if row.ID == id {
			return row, true
		}
	}
	return SchemaRow{}, false
}

// ExtractedField is one capital component mapped to a template row.
// Value is decoded as `any` so the validator can flag non-numeric model
// output instead of failing the whole parse.
type ExtractedField struct {
	RowID         string `json:"row_id"`
	FieldName     string `json:"field_name"`
	Value         any    `json:"value"`
	Justification string `json:"justification"`
}

// NumericValue returns the field value as a float64 when the model
// produced an actual JSON number.
func (f ExtractedField) NumericValue() (float64, bool) {
	v, ok := f.Value.(float64)
	return v, ok
}

const (
	severityError   = "error"
	severityWarning = "warning"

	// generalRowID tags issues that apply to the extract as a whole
	// rather than a single row.
	generalRowID = "GENERAL"
)

// ValidationIssue classifies one problem found in an extract. Issues never
// abort processing; they are returned alongside the results.
type ValidationIssue struct {
	Severity string
	RowID    string
	Message  string
}

// RetrievedRule is the audit reference to a rule fed into the prompt.
type RetrievedRule struct {
	ID    string
	Field string
}

// PipelineResult is the single discriminated output of a pipeline
// invocation: either Err is set, or the success fields are.
type PipelineResult struct {
	Err       string
	Results   []ExtractedField
	Issues    []ValidationIssue
	Retrieved []RetrievedRule
	Usage     LLMUsage
}

// Failed reports whether the invocation produced the error shape.
func (r PipelineResult) Failed() bool {
	return r.Err != ""
}

// ErrorIssueCount counts error-severity issues.
func (r PipelineResult) ErrorIssueCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severityError {
			n++
		}
	}
	return n
}

// WarningIssueCount counts warning-severity issues.
func (r PipelineResult) WarningIssueCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severityWarning {
			n++
		}
	}
	return n
}

// AggregateValue sums all numeric field values in the extract.
func (r PipelineResult) AggregateValue() float64 {
	var total float64
	for _, field := range r.Results {
		if v, ok := field.NumericValue(); ok {
			total += v
		}
	}
	return total
}
