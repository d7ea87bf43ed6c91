package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Labels recognized in the rulebook extract. A new "Rule ID:" line closes
// the previous block.
const (
	labelRuleID      = "Rule ID:"
	labelField       = "Field:"
	labelRowColumn   = "Row/Column:"
	labelInstruction = "Instruction:"
)

// LoadRules reads and parses the regulatory rule corpus.
func LoadRules(path string) ([]RuleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read rules corpus: %w", err)
	}
	defer f.Close()

	rules, err := ParseRules(f)
	if err != nil {
		return nil, fmt.Errorf("parse rules corpus %s: %w", path, err)
	}
	return rules, nil
}

// ParseRules parses the line-oriented rule corpus. Labeled lines populate
// the current record; unlabeled non-blank lines continue a wrapped
// instruction. The final record is flushed at end of input.
func ParseRules(r io.Reader) ([]RuleRecord, error) {
	var rules []RuleRecord
	var cur *RuleRecord

	flush := func() {
		if cur != nil && cur.ID != "" {
			rules = append(rules, *cur)
		}
		cur = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, labelRuleID):
			flush()
			cur = &RuleRecord{ID: strings.TrimSpace(strings.TrimPrefix(line, labelRuleID))}
		case cur == nil:
			// Preamble before the first rule block.
		case strings.HasPrefix(line, labelField):
			cur.Field = strings.TrimSpace(strings.TrimPrefix(line, labelField))
		case strings.HasPrefix(line, labelRowColumn):
			cur.RowColumn = strings.TrimSpace(strings.TrimPrefix(line, labelRowColumn))
		case strings.HasPrefix(line, labelInstruction):
			cur.Instruction = strings.TrimSpace(strings.TrimPrefix(line, labelInstruction))
		case line != "" && cur.Instruction != "":
			// Long instructions wrap onto unlabeled lines in the extract.
			cur.Instruction += " " + line
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return rules, nil
}
