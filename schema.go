package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadSchema reads the declarative template schema. The row id set it
// declares is the universe of valid extraction targets.
func LoadSchema(path string) (*TemplateSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var schema TemplateSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse schema json %s: %w", path, err)
	}
	if len(schema.Rows) == 0 {
		return nil, fmt.Errorf("schema %s declares no rows", path)
	}
	seen := make(map[string]bool, len(schema.Rows))
	for _, row := range schema.Rows {
		if row.ID == "" {
			return nil, fmt.Errorf("schema %s contains a row without an id", path)
		}
		if seen[row.ID] {
			return nil, fmt.Errorf("schema %s declares row %s twice", path, row.ID)
		}
		seen[row.ID] = true
	}
	return &schema, nil
}
