package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/roach88/tokencheck/internal/tokens"
)

// lexToken is one CSS token with its position in the sheet.
type lexToken struct {
	typ    css.TokenType
	text   string
	offset int
}

// Extract returns the custom properties defined by an artifact.
// Sheets are processed in order; a property defined in several sheets keeps
// its first position and its last value. Artifacts that implement
// DefinitionSource are read directly instead of being lexed.
func Extract(a Artifact) (*tokens.StyleDeclaration, error) {
	if a == nil {
		return nil, &MalformedStyleError{Reason: "no style artifact"}
	}

	decl := tokens.NewStyleDeclaration()
	sheet := 0
	if err := extractArtifact(a, decl, &sheet); err != nil {
		return nil, err
	}
	return decl, nil
}

// extractArtifact walks a, numbering sheets through *sheet.
func extractArtifact(a Artifact, decl *tokens.StyleDeclaration, sheet *int) error {
	switch a := a.(type) {
	case Bundle:
		for _, part := range a {
			if part == nil {
				continue
			}
			if err := extractArtifact(part, decl, sheet); err != nil {
				return err
			}
		}
		return nil
	case DefinitionSource:
		i := *sheet
		*sheet++
		if err := extractDefinitions(a.Definitions(), decl); err != nil {
			err.Sheet = i
			return err
		}
		return nil
	}

	for _, text := range a.StyleSheets() {
		i := *sheet
		*sheet++
		if err := extractSheet(text, decl); err != nil {
			var malformed *MalformedStyleError
			if errors.As(err, &malformed) {
				malformed.Sheet = i
				malformed.Line = lineOf(text, malformed.Offset)
			}
			return err
		}
	}
	return nil
}

// extractDefinitions records structured declarations. Values are opaque:
// they are never split into further definitions, but var() references in
// them are still collected.
func extractDefinitions(defs []tokens.Declaration, decl *tokens.StyleDeclaration) *MalformedStyleError {
	for _, d := range defs {
		name := "--" + strings.TrimPrefix(d.Name, "--")
		if !isCustomPropertyName(name) {
			return &MalformedStyleError{Reason: fmt.Sprintf("invalid custom property name %q", d.Name)}
		}
		decl.Define(strings.TrimPrefix(name, "--"), stripImportant(d.Value))

		toks, err := tokenize(d.Value)
		if err != nil {
			return &MalformedStyleError{Reason: fmt.Sprintf("value of %s: %v", name, err)}
		}
		collectReferences(toks, decl)
	}
	return nil
}

// isCustomPropertyName reports whether name lexes as exactly one "--name"
// identifier.
func isCustomPropertyName(name string) bool {
	toks, err := tokenize(name)
	if err != nil || len(toks) != 1 {
		return false
	}
	return isCustomProperty(toks[0]) && toks[0].text == name
}

// stripImportant trims the value and drops a trailing "!important".
func stripImportant(v string) string {
	v = strings.TrimSpace(v)
	const important = "important"
	if len(v) < len(important) || !strings.EqualFold(v[len(v)-len(important):], important) {
		return v
	}
	rest := strings.TrimSpace(v[:len(v)-len(important)])
	if !strings.HasSuffix(rest, "!") {
		return v
	}
	return strings.TrimSpace(strings.TrimSuffix(rest, "!"))
}

// extractSheet walks one sheet and records definitions and references.
func extractSheet(sheet string, decl *tokens.StyleDeclaration) error {
	toks, err := tokenize(sheet)
	if err != nil {
		return err
	}

	// closers is the stack of expected closing tokens
	var closers []css.TokenType
	atStart := true

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch tok.typ {
		case css.WhitespaceToken:
			continue

		case css.BadStringToken:
			return malformed(tok, "unterminated string")
		case css.BadURLToken:
			return malformed(tok, "malformed url")

		case css.LeftBraceToken:
			closers = append(closers, css.RightBraceToken)
			atStart = true
			continue
		case css.LeftParenthesisToken, css.FunctionToken:
			closers = append(closers, css.RightParenthesisToken)
		case css.LeftBracketToken:
			closers = append(closers, css.RightBracketToken)

		case css.RightBraceToken, css.RightParenthesisToken, css.RightBracketToken:
			if len(closers) == 0 || closers[len(closers)-1] != tok.typ {
				return malformed(tok, fmt.Sprintf("unexpected %q", tok.text))
			}
			closers = closers[:len(closers)-1]
			if tok.typ == css.RightBraceToken {
				atStart = true
				continue
			}

		case css.SemicolonToken:
			atStart = true
			continue

		default:
			if atStart && isCustomProperty(tok) {
				if len(closers) == 0 {
					return malformed(tok, fmt.Sprintf("custom property %s declared outside a rule block", tok.text))
				}
				if closers[len(closers)-1] == css.RightBraceToken {
					end, err := readDefinition(toks, i, decl)
					if err != nil {
						return err
					}
					i = end - 1
					atStart = false
					continue
				}
			}
		}
		atStart = false
	}

	if len(closers) > 0 {
		return &MalformedStyleError{Offset: len(sheet), Reason: fmt.Sprintf("%d unclosed block(s) at end of sheet", len(closers))}
	}

	collectReferences(toks, decl)
	return nil
}

// readDefinition parses "--name: value" starting at toks[start] and returns
// the index of the token that ends the value (';', '}' or len(toks)).
func readDefinition(toks []lexToken, start int, decl *tokens.StyleDeclaration) (int, error) {
	name := toks[start]

	colon := nextSignificant(toks, start+1)
	if colon >= len(toks) || toks[colon].typ != css.ColonToken {
		return 0, malformed(name, fmt.Sprintf("custom property %s is not followed by ':'", name.text))
	}

	var nest []css.TokenType
	var value strings.Builder
	i := colon + 1
	for ; i < len(toks); i++ {
		tok := toks[i]
		if len(nest) == 0 && (tok.typ == css.SemicolonToken || tok.typ == css.RightBraceToken) {
			break
		}
		switch tok.typ {
		case css.BadStringToken:
			return 0, malformed(tok, "unterminated string")
		case css.BadURLToken:
			return 0, malformed(tok, "malformed url")
		case css.LeftParenthesisToken, css.FunctionToken:
			nest = append(nest, css.RightParenthesisToken)
		case css.LeftBracketToken:
			nest = append(nest, css.RightBracketToken)
		case css.LeftBraceToken:
			nest = append(nest, css.RightBraceToken)
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			if len(nest) == 0 || nest[len(nest)-1] != tok.typ {
				return 0, malformed(tok, fmt.Sprintf("unexpected %q in value of %s", tok.text, name.text))
			}
			nest = nest[:len(nest)-1]
		}
		value.WriteString(tok.text)
	}
	if len(nest) > 0 {
		return 0, malformed(name, fmt.Sprintf("unclosed bracket in value of %s", name.text))
	}

	decl.Define(strings.TrimPrefix(name.text, "--"), stripImportant(value.String()))
	return i, nil
}

// collectReferences records every custom property used inside var().
func collectReferences(toks []lexToken, decl *tokens.StyleDeclaration) {
	for i, tok := range toks {
		if tok.typ != css.FunctionToken || !strings.EqualFold(tok.text, "var(") {
			continue
		}
		j := nextSignificant(toks, i+1)
		if j < len(toks) && isCustomProperty(toks[j]) {
			decl.Reference(strings.TrimPrefix(toks[j].text, "--"))
		}
	}
}

// tokenize lexes a sheet, dropping comments.
func tokenize(sheet string) ([]lexToken, error) {
	l := css.NewLexer(parse.NewInputString(sheet))
	var toks []lexToken
	offset := 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, &MalformedStyleError{Offset: offset, Reason: err.Error()}
			}
			return toks, nil
		}
		if tt != css.CommentToken {
			toks = append(toks, lexToken{typ: tt, text: string(data), offset: offset})
		}
		offset += len(data)
	}
}

// nextSignificant returns the index of the next non-whitespace token.
func nextSignificant(toks []lexToken, from int) int {
	for from < len(toks) && toks[from].typ == css.WhitespaceToken {
		from++
	}
	return from
}

// isCustomProperty reports whether tok is a "--name" identifier.
// Older lexer versions emit CustomPropertyNameToken, newer ones IdentToken.
func isCustomProperty(tok lexToken) bool {
	if tok.typ != css.IdentToken && tok.typ != css.CustomPropertyNameToken {
		return false
	}
	return len(tok.text) > 2 && strings.HasPrefix(tok.text, "--")
}

func malformed(tok lexToken, reason string) *MalformedStyleError {
	return &MalformedStyleError{Offset: tok.offset, Reason: reason}
}

// lineOf returns the 1-based line of a byte offset.
func lineOf(sheet string, offset int) int {
	if offset > len(sheet) {
		offset = len(sheet)
	}
	return strings.Count(sheet[:offset], "\n") + 1
}
