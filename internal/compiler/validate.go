package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/tokencheck/internal/tokens"
)

// Validation error codes (E100-E199)
const (
	// FamilySchema errors (E101-E109)
	ErrInvalidFamilyID  = "E101" // family id empty or malformed
	ErrFamilyNoTokens   = "E102" // base family declares no tokens
	ErrInvalidTokenName = "E103" // token name malformed
	ErrUnknownCategory  = "E104" // category not in tokens.ValidCategories
	ErrDuplicateToken   = "E105" // duplicate token name within one family
	ErrInvalidPrefix    = "E106" // prefix malformed
	ErrInvalidRemove    = "E107" // remove entry empty, duplicated, re-added or without base

	// Registry errors (E110-E119)
	ErrUnknownBase        = "E110" // extends names an unregistered family
	ErrInheritanceCycle   = "E111" // extends chain loops back
	ErrRemoveNotInherited = "E112" // remove names a token the base chain lacks
	ErrDuplicateFamily    = "E113" // two sources define the same family id
)

// validName matches family ids, prefixes and short token names.
// Custom property names allow more, but schemas stick to this subset.
var validName = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Family  string `json:"family,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled family against schema rules.
// Returns all errors found (does not fail-fast). Cross-family rules
// (unknown base, cycles) are checked by the registry.
func Validate(fam *tokens.FamilySchema) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Family:  fam.ID,
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		})
	}

	// E101: family id
	if !validName.MatchString(fam.ID) {
		add("family", ErrInvalidFamilyID, "invalid family id %q", fam.ID)
	}

	// E106: prefix is optional but must be well-formed
	if fam.Prefix != "" && !validName.MatchString(fam.Prefix) {
		add("prefix", ErrInvalidPrefix, "invalid prefix %q", fam.Prefix)
	}

	if fam.Extends != "" && !validName.MatchString(fam.Extends) {
		add("extends", ErrUnknownBase, "invalid base family id %q", fam.Extends)
	}

	// E102: a base family must declare something to verify
	if fam.Extends == "" && len(fam.Tokens) == 0 {
		add("tokens", ErrFamilyNoTokens, "family %q declares no tokens and extends no base", fam.ID)
	}

	names := make(map[string]bool, len(fam.Tokens))
	for i, tok := range fam.Tokens {
		field := fmt.Sprintf("tokens[%d]", i)

		// E103: token name
		if !validName.MatchString(tok.Name) {
			add(field+".name", ErrInvalidTokenName, "invalid token name %q", tok.Name)
		}

		// E105: duplicates
		if names[tok.Name] {
			add(field+".name", ErrDuplicateToken, "duplicate token name: %q", tok.Name)
		}
		names[tok.Name] = true

		// E104: category
		if tok.Category != "" && !tokens.ValidCategories[tok.Category] {
			add(field+".category", ErrUnknownCategory,
				"unknown category %q for token %q, must be one of %s", tok.Category, tok.Name, categoryList())
		}
	}

	// E107: remove list
	if len(fam.Remove) > 0 && fam.Extends == "" {
		add("remove", ErrInvalidRemove, "remove requires extends")
	}
	removed := make(map[string]bool, len(fam.Remove))
	for i, name := range fam.Remove {
		field := fmt.Sprintf("remove[%d]", i)
		switch {
		case strings.TrimSpace(name) == "":
			add(field, ErrInvalidRemove, "remove entry must be non-empty")
		case removed[name]:
			add(field, ErrInvalidRemove, "duplicate remove entry: %q", name)
		case names[name]:
			add(field, ErrInvalidRemove, "token %q is both removed and declared", name)
		}
		removed[name] = true
	}

	return errs
}

// categoryList renders the valid categories in a stable order.
func categoryList() string {
	return strings.Join([]string{
		string(tokens.CategoryColor),
		string(tokens.CategoryLength),
		string(tokens.CategoryShape),
		string(tokens.CategoryDuration),
		string(tokens.CategoryNumber),
		string(tokens.CategoryTypography),
	}, ", ")
}
