// Package extract derives the declared token set from compiled style artifacts.
//
// An artifact is anything that can hand over its style sheets as CSS text:
// a single StyleSheet, a Bundle of sheets (the shape of a component's
// styles array), or structured Declarations. Extraction tokenizes each sheet
// with the tdewolff CSS lexer and walks the token stream:
//
//   - a custom property that starts a declaration inside a rule block and is
//     followed by ':' is a definition
//   - a custom property inside var(...) is only a reference; it never makes
//     the token present
//
// Any structural problem (unbalanced brackets, unterminated strings, a
// custom property outside a block or without ':') is a MalformedStyleError.
// Extraction keeps no state between calls.
package extract
