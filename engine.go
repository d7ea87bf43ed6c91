package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// numericRowID is the template row a bare numeric input maps to.
const numericRowID = "R010"
const numericRowFallbackName = "Common Equity Tier 1 Capital"

// AuditSink records the outcome of each pipeline invocation. Recording
// failures are logged and must never block the response path.
type AuditSink interface {
	RecordExtraction(entry AuditEntry) error
}

// Pipeline runs the extraction-and-validation flow. The rule corpus and
// schema are injected at construction and shared read-only across
// concurrent invocations; ReplaceData swaps them atomically.
type Pipeline struct {
	cfg     Config
	extract extractFunc
	audit   AuditSink

	mu      sync.RWMutex
	rules   []RuleRecord
	schema  *TemplateSchema
	dataErr error
}

func NewPipeline(cfg Config, rules []RuleRecord, schema *TemplateSchema) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		extract: callModel,
		rules:   rules,
		schema:  schema,
	}
}

// SetAuditSink attaches an optional audit trail.
func (p *Pipeline) SetAuditSink(sink AuditSink) {
	p.audit = sink
}

// SetDataError records a startup data-load failure; invocations report it
// as a configuration error until ReplaceData succeeds.
func (p *Pipeline) SetDataError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dataErr = err
}

// ReplaceData swaps in a freshly loaded corpus and schema.
func (p *Pipeline) ReplaceData(rules []RuleRecord, schema *TemplateSchema) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rules = rules
	p.schema = schema
	p.dataErr = nil
}

func (p *Pipeline) snapshot() ([]RuleRecord, *TemplateSchema, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.dataErr != nil {
		return nil, nil, p.dataErr
	}
	if p.schema == nil || len(p.rules) == 0 {
		return nil, nil, errors.New("rule corpus or schema not loaded")
	}
	return p.rules, p.schema, nil
}

// RuleCount returns the size of the active corpus.
func (p *Pipeline) RuleCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.rules)
}

// Process runs one reporting scenario through the pipeline and returns a
// single discriminated result. All failures, including panics in the
// stages below, surface as an error-shaped result; nothing propagates to
// the caller as a fault.
func (p *Pipeline) Process(ctx context.Context, input string) (result PipelineResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline panic recovered: %v", r)
			result = errorResult(fmt.Sprintf("Processing error: %v", r))
		}
		p.recordAudit(input, result)
	}()

	if !p.cfg.APIKeyConfigured() {
		log.Printf("pipeline rejected: %s API key not configured", p.cfg.LLMProvider)
		return errorResult("Configuration error: API key not configured")
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return errorResult("Processing error: no input provided")
	}

	rules, schema, err := p.snapshot()
	if err != nil {
		log.Printf("pipeline data unavailable: %v", err)
		return errorResult(fmt.Sprintf("System configuration error: %v", err))
	}

	if isNumericInput(trimmed) {
		log.Printf("pipeline numeric input detected chars=%d", len(trimmed))
		return p.processNumeric(trimmed, schema)
	}

	log.Printf("pipeline narrative input detected chars=%d", len(trimmed))
	return p.processNarrative(ctx, trimmed, rules, schema)
}

func (p *Pipeline) processNumeric(input string, schema *TemplateSchema) PipelineResult {
	value, err := parseNumericInput(input)
	if err != nil {
		// The classifier grammar should make this unreachable.
		return errorResult(fmt.Sprintf("Processing error: %v", err))
	}

	name := numericRowFallbackName
	if row, ok := schema.RowByID(numericRowID); ok {
		name = row.Name
	}
	field := ExtractedField{
		RowID:         numericRowID,
		FieldName:     name,
		Value:         value,
		Justification: "CA1-0010 (Auto-mapped from numeric input)",
	}
	results := []ExtractedField{field}

	return PipelineResult{
		Results:   results,
		Issues:    ValidateResults(results, schema),
		Retrieved: []RetrievedRule{},
	}
}

func (p *Pipeline) processNarrative(ctx context.Context, narrative string, rules []RuleRecord, schema *TemplateSchema) PipelineResult {
	retrieved := RetrieveRules(narrative, rules, p.cfg)
	log.Printf("pipeline retrieval corpus=%d selected=%d", len(rules), len(retrieved))

	systemPrompt, userPrompt := buildExtractionPrompts(retrieved, schema, narrative)

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.LLMTimeoutSecs)*time.Second)
	defer cancel()

	raw, usage, err := p.extract(callCtx, p.cfg, systemPrompt, userPrompt)
	if err != nil {
		log.Printf("pipeline extraction call failed: %v", err)
		return PipelineResult{
			Err:   fmt.Sprintf("Processing error: %v", err),
			Usage: usage,
		}
	}

	cleaned := sanitizeModelResponse(raw)
	results, err := parseExtraction(cleaned)
	switch {
	case errors.Is(err, errInvalidResponse):
		log.Printf("pipeline decode failed, payload=%s", truncateForLog(cleaned, 512))
		return PipelineResult{
			Err:   "Data extraction failed: invalid response format from processing engine",
			Usage: usage,
		}
	case errors.Is(err, errMissingResults):
		log.Printf("pipeline structural mismatch: missing results array, payload=%s", truncateForLog(cleaned, 512))
		return PipelineResult{
			Err:   "Invalid extraction format: expected results array",
			Usage: usage,
		}
	case err != nil:
		return PipelineResult{
			Err:   fmt.Sprintf("Processing error: %v", err),
			Usage: usage,
		}
	}

	refs := make([]RetrievedRule, len(retrieved))
	for i, rule := range retrieved {
		refs[i] = RetrievedRule{ID: rule.ID, Field: rule.Field}
	}

	log.Printf("pipeline extracted fields=%d tokens=%d", len(results), usage.TotalTokens())
	return PipelineResult{
		Results:   results,
		Issues:    ValidateResults(results, schema),
		Retrieved: refs,
		Usage:     usage,
	}
}

func (p *Pipeline) recordAudit(input string, result PipelineResult) {
	if p.audit == nil {
		return
	}
	mode := "narrative"
	if isNumericInput(input) {
		mode = "numeric"
	}
	outcome := "ok"
	if result.Failed() {
		outcome = "error"
	}
	entry := AuditEntry{
		InputMode:     mode,
		InputChars:    len(strings.TrimSpace(input)),
		Outcome:       outcome,
		ErrMessage:    result.Err,
		FieldCount:    len(result.Results),
		ErrorIssues:   result.ErrorIssueCount(),
		WarningIssues: result.WarningIssueCount(),
		InputTokens:   result.Usage.InputTokens,
		OutputTokens:  result.Usage.OutputTokens,
	}
	if err := p.audit.RecordExtraction(entry); err != nil {
		log.Printf("audit record error (non-fatal): %v", err)
	}
}

func errorResult(msg string) PipelineResult {
	return PipelineResult{Err: msg}
}

func truncateForLog(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + fmt.Sprintf("... [truncated, total_length=%d]", len(s))
}
