package testutil

import (
	"fmt"
	"strings"

	"github.com/roach88/tokencheck/internal/tokens"
)

// Sheet builds a style sheet declaring custom properties in one rule.
// Use it to derive artifacts from a resolved schema and then perturb them.
type Sheet struct {
	selector string
	decls    []tokens.Declaration
}

// NewSheet starts a sheet whose rule uses selector, ":host" when empty.
func NewSheet(selector string) *Sheet {
	if selector == "" {
		selector = ":host"
	}
	return &Sheet{selector: selector}
}

// FromSchema declares every token of schema, using its default when set.
func FromSchema(schema *tokens.ResolvedSchema) *Sheet {
	s := NewSheet("")
	for _, tok := range schema.Tokens {
		value := tok.Default
		if value == "" {
			value = "initial"
		}
		s.Token(tok.Name, value)
	}
	return s
}

// Token declares name with value, replacing an earlier declaration.
func (s *Sheet) Token(name, value string) *Sheet {
	for i := range s.decls {
		if s.decls[i].Name == name {
			s.decls[i].Value = value
			return s
		}
	}
	s.decls = append(s.decls, tokens.Declaration{Name: name, Value: value})
	return s
}

// Without drops name from the sheet.
func (s *Sheet) Without(name string) *Sheet {
	out := s.decls[:0]
	for _, d := range s.decls {
		if d.Name != name {
			out = append(out, d)
		}
	}
	s.decls = out
	return s
}

// Clone returns an independent copy.
func (s *Sheet) Clone() *Sheet {
	return &Sheet{
		selector: s.selector,
		decls:    append([]tokens.Declaration(nil), s.decls...),
	}
}

// String renders the sheet as CSS text.
func (s *Sheet) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", s.selector)
	for _, d := range s.decls {
		fmt.Fprintf(&b, "  --%s: %s;\n", d.Name, d.Value)
	}
	b.WriteString("}\n")
	return b.String()
}
