// Package xps parses the Fixed Page XML graphics tree, resolves
// Canvas.Resources, and deobfuscates ODTTF font parts.
package xps

import (
	"strconv"
	"strings"
)

// ParseNumberList tolerantly parses a culture-invariant list of decimal
// numbers separated by commas and/or whitespace, the format XPS uses for
// Viewport, RenderTransform, and StrokeDashArray attribute values. Empty
// tokens (from runs of separators, e.g. "1, ,2") are skipped rather than
// treated as errors.
func ParseNumberList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseNumber parses a single culture-invariant decimal value.
func ParseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
