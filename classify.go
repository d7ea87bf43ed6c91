package main

import (
	"regexp"
	"strconv"
	"strings"
)

// A numeric input is a single decimal number, optionally negative, with
// optional 3-digit grouping commas. Anything else (currency symbols,
// units, surrounding text) goes down the narrative path.
var numericInputRe = regexp.MustCompile(`^-?\d{1,3}(,?\d{3})*(\.\d+)?$`)

func isNumericInput(input string) bool {
	return numericInputRe.MatchString(strings.TrimSpace(input))
}

func parseNumericInput(input string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	return strconv.ParseFloat(cleaned, 64)
}
