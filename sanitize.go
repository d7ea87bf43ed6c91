package main

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	fenceLangRe  = regexp.MustCompile("(?i)^```[a-z]+\\s*")
	fenceBareRe  = regexp.MustCompile("^```\\s*")
	fenceCloseRe = regexp.MustCompile("\\s*```$")
)

// sanitizeModelResponse strips markdown formatting artifacts from raw
// model output to recover the JSON payload. It does not validate the
// result; that is the caller's job. Idempotent on already-clean input.
func sanitizeModelResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = fenceLangRe.ReplaceAllString(cleaned, "")
	cleaned = fenceBareRe.ReplaceAllString(cleaned, "")
	cleaned = fenceCloseRe.ReplaceAllString(cleaned, "")
	cleaned = strings.Trim(cleaned, "`")
	return strings.TrimSpace(cleaned)
}

var (
	errInvalidResponse = errors.New("response is not valid JSON")
	errMissingResults  = errors.New("response lacks a results array")
)

// parseExtraction decodes sanitized model output into extracted fields.
// A strict parse is tried first; on failure the span from the first '{'
// to the last '}' is retried, which recovers responses where the model
// prepended commentary around the payload. Returns errInvalidResponse
// when no JSON object can be decoded and errMissingResults when the
// object has no results list.
func parseExtraction(cleaned string) ([]ExtractedField, error) {
	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, errInvalidResponse
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err != nil {
			return nil, errInvalidResponse
		}
	}

	rawResults, ok := payload["results"]
	if !ok {
		return nil, errMissingResults
	}
	// JSON null unmarshals into a slice without error; it is not a list.
	if string(rawResults) == "null" {
		return nil, errMissingResults
	}
	var results []ExtractedField
	if err := json.Unmarshal(rawResults, &results); err != nil {
		return nil, errMissingResults
	}
	if results == nil {
		results = []ExtractedField{}
	}
	return results, nil
}
