package registry

import (
	"fmt"
	"strings"

	"github.com/roach88/tokencheck/internal/compiler"
)

// UnknownFamilyError is returned when a family id has no registered schema.
type UnknownFamilyError struct {
	Family string
	Known  []string
}

// Error implements the error interface.
func (e *UnknownFamilyError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown token family %q (registry is empty)", e.Family)
	}
	return fmt.Sprintf("unknown token family %q (known: %s)", e.Family, strings.Join(e.Known, ", "))
}

// SchemaError reports every validation error found while building a Registry.
type SchemaError struct {
	Errors []compiler.ValidationError
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("invalid token schema: %v", e.Errors[0])
	}
	return fmt.Sprintf("invalid token schema: %d errors, first: %v", len(e.Errors), e.Errors[0])
}
