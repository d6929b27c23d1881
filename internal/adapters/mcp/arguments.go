package mcp

import (
	"fmt"
	"math"

	"github.com/printops/gelato-mcp/internal/app"
)

// arguments coerces a decoded JSON arguments object into typed values.
// The first coercion failure is captured as a failure envelope and
// subsequent accessors return zero values, so handlers check err once
// after extracting everything.
type arguments struct {
	raw       map[string]any
	operation string
	err       *app.Envelope
}

func (a *arguments) fail(key, expected string) {
	if a.err != nil {
		return
	}

	env := app.Envelope{
		Success: false,
		Error: &app.ErrorInfo{
			Message:   fmt.Sprintf("Invalid argument '%s': expected %s", key, expected),
			Operation: a.operation,
		},
	}
	a.err = &env
}

// str returns an optional string argument, "" when absent.
func (a *arguments) str(key string) string {
	value, ok := a.raw[key]
	if !ok || value == nil {
		return ""
	}

	s, ok := value.(string)
	if !ok {
		a.fail(key, "a string")

		return ""
	}

	return s
}

// required returns a mandatory non-empty string argument.
func (a *arguments) required(key string) string {
	value, ok := a.raw[key]
	if !ok || value == nil {
		a.fail(key, "a non-empty string")

		return ""
	}

	s, ok := value.(string)
	if !ok || s == "" {
		a.fail(key, "a non-empty string")

		return ""
	}

	return s
}

// integer returns an optional integer argument. JSON numbers decode as
// float64; a fractional value is rejected rather than truncated.
func (a *arguments) integer(key string, defaultValue int) int {
	value, ok := a.raw[key]
	if !ok || value == nil {
		return defaultValue
	}

	f, ok := value.(float64)
	if !ok || f != math.Trunc(f) {
		a.fail(key, "an integer")

		return defaultValue
	}

	return int(f)
}

// stringList returns an optional list-of-strings argument, nil when absent.
func (a *arguments) stringList(key string) []string {
	value, ok := a.raw[key]
	if !ok || value == nil {
		return nil
	}

	items, ok := value.([]any)
	if !ok {
		a.fail(key, "a list of strings")

		return nil
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			a.fail(key, "a list of strings")

			return nil
		}

		result = append(result, s)
	}

	return result
}

// filters returns an optional mapping of attribute name to accepted
// values, nil when absent.
func (a *arguments) filters(key string) map[string][]string {
	value, ok := a.raw[key]
	if !ok || value == nil {
		return nil
	}

	object, ok := value.(map[string]any)
	if !ok {
		a.fail(key, "a mapping of attribute name to a list of values")

		return nil
	}

	result := make(map[string][]string, len(object))
	for name, rawValues := range object {
		values, ok := rawValues.([]any)
		if !ok {
			a.fail(key, "a mapping of attribute name to a list of values")

			return nil
		}

		accepted := make([]string, 0, len(values))
		for _, v := range values {
			s, ok := v.(string)
			if !ok {
				a.fail(key, "a mapping of attribute name to a list of values")

				return nil
			}

			accepted = append(accepted, s)
		}

		result[name] = accepted
	}

	return result
}
