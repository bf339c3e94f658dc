// Package verify compares a declared token set against a resolved schema.
//
// Results come out in a fixed order: one record per schema token in schema
// order, then one unexpected-extra record per undeclared token in the order
// the artifact defined it. Name comparison is exact and case-sensitive.
package verify

import (
	"strings"

	"github.com/roach88/tokencheck/internal/tokens"
)

// Options controls optional checks.
type Options struct {
	// Values enables value-mismatch detection for schema tokens that carry
	// a default. Presence is always checked.
	Values bool
}

// Verify compares expected token names against actual ones.
// Duplicate names in either input are reported once.
func Verify(expected, actual []string) []tokens.Result {
	present := make(map[string]bool, len(actual))
	for _, name := range actual {
		present[name] = true
	}

	results := make([]tokens.Result, 0, len(expected))
	inSchema := make(map[string]bool, len(expected))
	for _, name := range expected {
		if inSchema[name] {
			continue
		}
		inSchema[name] = true

		status := tokens.StatusMissing
		if present[name] {
			status = tokens.StatusPresent
		}
		results = append(results, tokens.Result{Token: name, Status: status})
	}

	reported := make(map[string]bool)
	for _, name := range actual {
		if inSchema[name] || reported[name] {
			continue
		}
		reported[name] = true
		results = append(results, tokens.Result{Token: name, Status: tokens.StatusUnexpected})
	}

	return results
}

// VerifySchema verifies a declaration against a resolved schema and tags
// every result with the schema's family.
func VerifySchema(schema *tokens.ResolvedSchema, decl *tokens.StyleDeclaration, opts Options) []tokens.Result {
	results := Verify(schema.Names(), decl.Names())

	for i := range results {
		r := &results[i]
		r.Family = schema.Family

		if !opts.Values || r.Status != tokens.StatusPresent {
			continue
		}
		spec, ok := schema.Lookup(r.Token)
		if !ok || spec.Default == "" {
			continue
		}
		actual, _ := decl.Value(r.Token)
		if NormalizeValue(actual) != NormalizeValue(spec.Default) {
			r.Status = tokens.StatusValueMismatch
			r.Expected = spec.Default
			r.Actual = actual
		}
	}

	return results
}

// NormalizeValue trims a value and collapses internal whitespace runs.
func NormalizeValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// Split separates schema results from unexpected extras.
func Split(results []tokens.Result) (schema, extras []tokens.Result) {
	for _, r := range results {
		if r.Status == tokens.StatusUnexpected {
			extras = append(extras, r)
			continue
		}
		schema = append(schema, r)
	}
	return schema, extras
}
