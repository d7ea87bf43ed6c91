package main

import (
	"errors"
	"testing"
)

func TestSanitizeModelResponseFenceRoundTrip(t *testing.T) {
	got := sanitizeModelResponse("```json\n{\"a\":1}\n```")
	if got != `{"a":1}` {
		t.Fatalf("unexpected sanitized output: %q", got)
	}
}

func TestSanitizeModelResponseVariants(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  \n{\"a\":1}\n  ", `{"a":1}`},
		{"`{\"a\":1}`", `{"a":1}`},
		{"{\"a\":1}", `{"a":1}`},
		{"```json\n[1,2]\n```", "[1,2]"},
	}
	for _, tc := range cases {
		if got := sanitizeModelResponse(tc.in); got != tc.want {
			t.Errorf("sanitizeModelResponse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeModelResponseIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"results\": []}\n```",
		`{"results": []}`,
		"plain text",
		"",
	}
	for _, in := range inputs {
		once := sanitizeModelResponse(in)
		twice := sanitizeModelResponse(once)
		if once != twice {
			t.Errorf("sanitize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestParseExtractionStrict(t *testing.T) {
	results, err := parseExtraction(`{"results": [{"row_id": "R010", "field_name": "Common Equity Tier 1 Capital", "value": 50000000.0, "justification": "CA1-0010"}]}`)
	if err != nil {
		t.Fatalf("parseExtraction returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].RowID != "R010" {
		t.Fatalf("unexpected row id: %q", results[0].RowID)
	}
	if v, ok := results[0].NumericValue(); !ok || v != 50000000.0 {
		t.Fatalf("unexpected value: %v", results[0].Value)
	}
}

func TestParseExtractionBraceSpanFallback(t *testing.T) {
	// Sanitizing strips the trailing fence but leaves the preamble; the
	// brace-span fallback recovers the payload.
	cleaned := sanitizeModelResponse("Sure! ```json {\"results\": []} ``` ")
	results, err := parseExtraction(cleaned)
	if err != nil {
		t.Fatalf("parseExtraction returned error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %d", len(results))
	}
}

func TestParseExtractionInvalidJSON(t *testing.T) {
	_, err := parseExtraction("this is not json")
	if !errors.Is(err, errInvalidResponse) {
		t.Fatalf("expected errInvalidResponse, got %v", err)
	}
}

func TestParseExtractionMissingResults(t *testing.T) {
	_, err := parseExtraction(`{"data": []}`)
	if !errors.Is(err, errMissingResults) {
		t.Fatalf("expected errMissingResults, got %v", err)
	}

	_, err = parseExtraction(`{"results": {"not": "a list"}}`)
	if !errors.Is(err, errMissingResults) {
		t.Fatalf("expected errMissingResults for non-list results, got %v", err)
	}

	_, err = parseExtraction(`{"results": null}`)
	if !errors.Is(err, errMissingResults) {
		t.Fatalf("expected errMissingResults for null results, got %v", err)
	}
}

func TestParseExtractionNonNumericValueSurvivesParse(t *testing.T) {
	results, err := parseExtraction(`{"results": [{"row_id": "R010", "field_name": "CET1", "value": "fifty million", "justification": "CA1-0010"}]}`)
	if err != nil {
		t.Fatalf("parseExtraction returned error: %v", err)
	}
	if _, ok := results[0].NumericValue(); ok {
		t.Fatal("expected non-numeric value to be flagged by NumericValue")
	}
}
