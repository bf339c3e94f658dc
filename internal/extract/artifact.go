package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/roach88/tokencheck/internal/tokens"
)

// Artifact is a compiled style artifact that exposes its CSS text.
type Artifact interface {
	StyleSheets() []string
}

// StyleSheet is the CSS text of one compiled style sheet.
type StyleSheet string

// StyleSheets implements Artifact.
func (s StyleSheet) StyleSheets() []string {
	return []string{string(s)}
}

// Bundle is an ordered list of artifacts, flattened in order.
type Bundle []Artifact

// StyleSheets implements Artifact.
func (b Bundle) StyleSheets() []string {
	var out []string
	for _, a := range b {
		if a == nil {
			continue
		}
		out = append(out, a.StyleSheets()...)
	}
	return out
}

// DefinitionSource is implemented by artifacts that already hold their
// custom property definitions. Extract uses Definitions instead of lexing
// StyleSheets.
type DefinitionSource interface {
	Artifact
	Definitions() []tokens.Declaration
}

// Declarations is a structured artifact: custom properties as name/value pairs.
// Names may be given with or without the leading "--".
type Declarations []tokens.Declaration

// Definitions implements DefinitionSource.
func (d Declarations) Definitions() []tokens.Declaration {
	return d
}

// StyleSheets renders a single :host block for display. Extract reads
// Definitions instead, so values are never re-parsed as CSS.
func (d Declarations) StyleSheets() []string {
	var b strings.Builder
	b.WriteString(":host {\n")
	for _, decl := range d {
		fmt.Fprintf(&b, "  --%s: %s;\n", strings.TrimPrefix(decl.Name, "--"), decl.Value)
	}
	b.WriteString("}\n")
	return []string{b.String()}
}

// ReadFiles loads CSS files into a Bundle, one StyleSheet per file.
func ReadFiles(paths ...string) (Bundle, error) {
	bundle := make(Bundle, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read style sheet: %w", err)
		}
		bundle = append(bundle, StyleSheet(data))
	}
	return bundle, nil
}
