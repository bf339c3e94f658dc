package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tokencheck/internal/tokens"
)

// familyFields lists the labels a family struct may declare.
var familyFields = map[string]bool{
	"extends": true,
	"prefix":  true,
	"remove":  true,
	"tokens":  true,
}

// CompileFamily parses a CUE value into a FamilySchema. The family id is
// the last label of the value's path.
//
// The CUE value should be the family struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`family: button: { tokens: ["container-color"] }`)
//	fam, err := CompileFamily(v.LookupPath(cue.ParsePath("family.button")))
//
// CompileFamily checks structure only; run Validate on the result for
// naming and uniqueness rules.
func CompileFamily(v cue.Value) (*tokens.FamilySchema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	fam := &tokens.FamilySchema{Tokens: []tokens.TokenSpec{}}

	// Family id comes from the struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		fam.ID = selectorName(labels[len(labels)-1])
	}

	if v.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{
			Field:   "family",
			Message: fmt.Sprintf("family %q must be a struct", fam.ID),
			Pos:     v.Pos(),
		}
	}

	// Reject unknown fields (catches typos like "token:" vs "tokens:")
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		label := selectorName(iter.Selector())
		if !familyFields[label] {
			return nil, &CompileError{
				Field:   label,
				Message: fmt.Sprintf("unknown field %q in family %q", label, fam.ID),
				Pos:     iter.Value().Pos(),
			}
		}
	}

	if fam.Extends, err = optionalString(v, "extends"); err != nil {
		return nil, err
	}
	if fam.Prefix, err = optionalString(v, "prefix"); err != nil {
		return nil, err
	}

	removeVal := v.LookupPath(cue.ParsePath("remove"))
	if removeVal.Exists() {
		list, err := removeVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for list.Next() {
			name, err := list.Value().String()
			if err != nil {
				return nil, &CompileError{
					Field:   "remove",
					Message: "remove entries must be strings",
					Pos:     list.Value().Pos(),
				}
			}
			fam.Remove = append(fam.Remove, name)
		}
	}

	tokensVal := v.LookupPath(cue.ParsePath("tokens"))
	if tokensVal.Exists() {
		fam.Tokens, err = parseTokens(tokensVal)
		if err != nil {
			return nil, err
		}
	}

	if pos := v.Pos(); pos.IsValid() {
		fam.Source = pos.Filename()
	}

	return fam, nil
}

// parseTokens parses the ordered token list of a family.
// Supports:
// - String entries: "container-color"
// - Object entries: { name: "...", category: "...", default: "..." }
func parseTokens(v cue.Value) ([]tokens.TokenSpec, error) {
	list, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "tokens",
			Message: "tokens must be a list",
			Pos:     v.Pos(),
		}
	}

	specs := []tokens.TokenSpec{}
	for list.Next() {
		spec, err := parseToken(list.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// parseToken parses a single token entry.
func parseToken(v cue.Value) (tokens.TokenSpec, error) {
	var spec tokens.TokenSpec

	// Try as string first
	if name, err := v.String(); err == nil {
		spec.Name = name
		return spec, nil
	}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return spec, &CompileError{
			Field:   "tokens",
			Message: "token must be a string or object with name field",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return spec, formatCUEError(err)
	}
	spec.Name = name

	category, err := optionalString(v, "category")
	if err != nil {
		return spec, err
	}
	spec.Category = tokens.Category(category)

	if spec.Default, err = optionalString(v, "default"); err != nil {
		return spec, err
	}

	return spec, nil
}

// optionalString reads a string field that may be absent.
func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{
			Field:   field,
			Message: fmt.Sprintf("%s must be a string", field),
			Pos:     fv.Pos(),
		}
	}
	return s, nil
}

// selectorName returns the unquoted form of a string label.
func selectorName(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return strings.Trim(sel.String(), `"`)
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
