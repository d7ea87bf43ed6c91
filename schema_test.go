package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSchemaFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return path
}

func TestLoadSchema(t *testing.T) {
	path := writeSchemaFile(t, `{
		"template": "C 01.00 (Own Funds)",
		"validation_rules": {
			"required_fields": ["row_id", "field_name", "value", "justification"],
			"allow_negative": false,
			"min_fields": 1
		},
		"rows": [
			{"id": "R010", "name": "Common Equity Tier 1 Capital", "data_type": "numeric", "validation": {"min_value": 0}},
			{"id": "R030", "name": "Retained Earnings", "data_type": "numeric", "validation": {"allow_negative": true}}
		]
	}`)

	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if schema.Template != "C 01.00 (Own Funds)" {
		t.Errorf("template: got %q", schema.Template)
	}
	if len(schema.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(schema.Rows))
	}
	if schema.ValidationRules.MinFields != 1 || schema.ValidationRules.AllowNegative {
		t.Errorf("unexpected validation rules: %+v", schema.ValidationRules)
	}

	row, ok := schema.RowByID("R010")
	if !ok || row.Name != "Common Equity Tier 1 Capital" {
		t.Fatalf("RowByID(R010): %+v ok=%v", row, ok)
	}
	if row.Validation.MinValue == nil || *row.Validation.MinValue != 0 {
		t.Errorf("R010 min_value: %+v", row.Validation.MinValue)
	}
	retained, ok := schema.RowByID("R030")
	if !ok || retained.Validation.AllowNegative == nil || !*retained.Validation.AllowNegative {
		t.Errorf("R030 allow_negative: %+v", retained.Validation.AllowNegative)
	}
	if _, ok := schema.RowByID("R999"); ok {
		t.Error("RowByID should report unknown rows")
	}
}

func TestLoadSchemaRejectsDuplicateRows(t *testing.T) {
	path := writeSchemaFile(t, `{
		"template": "t",
		"rows": [
			{"id": "R010", "name": "a", "data_type": "numeric"},
			{"id": "R010", "name": "b", "data_type": "numeric"}
		]
	}`)
	if _, err := LoadSchema(path); err == nil {
		t.Fatal("expected error for duplicate row ids")
	}
}

func TestLoadSchemaRejectsEmpty(t *testing.T) {
	for name, content := range map[string]string{
		"no rows":      `{"template": "t", "rows": []}`,
		"blank row id": `{"template": "t", "rows": [{"id": "", "name": "a", "data_type": "numeric"}]}`,
		"bad json":     `{"template": `,
	} {
		path := writeSchemaFile(t, content)
		if _, err := LoadSchema(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadSchemaMissingFile(t *testing.T) {
	if _, err := LoadSchema(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
