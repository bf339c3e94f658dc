package extract

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDefinitions(t *testing.T) {
	decl, err := Extract(StyleSheet(`
		:host {
			--md-button-container-color: #6750a4;
			--md-button-container-shape: 9999px;
			color: red;
		}
	`))
	require.NoError(t, err)

	assert.Equal(t, []string{"md-button-container-color", "md-button-container-shape"}, decl.Names())
	v, ok := decl.Value("md-button-container-color")
	require.True(t, ok)
	assert.Equal(t, "#6750a4", v)
}

func TestExtractReferencesAreNotDefinitions(t *testing.T) {
	decl, err := Extract(StyleSheet(`
		:host {
			--color: var(--md-sys-color-primary, #6750a4);
			background: var(--undefined-token);
		}
	`))
	require.NoError(t, err)

	assert.Equal(t, []string{"color"}, decl.Names())
	assert.False(t, decl.Has("md-sys-color-primary"))
	assert.False(t, decl.Has("undefined-token"))
	assert.Equal(t, []string{"md-sys-color-primary", "undefined-token"}, decl.References)
	assert.Equal(t, []string{"md-sys-color-primary", "undefined-token"}, decl.Undefined())
}

func TestExtractValueKeepsNestedFunctions(t *testing.T) {
	decl, err := Extract(StyleSheet(`:host{--shadow:0 1px calc(2px * var(--scale, 1)) rgba(0, 0, 0, .3)}`))
	require.NoError(t, err)

	v, ok := decl.Value("shadow")
	require.True(t, ok)
	assert.Equal(t, "0 1px calc(2px * var(--scale, 1)) rgba(0, 0, 0, .3)", v)
	assert.Equal(t, []string{"scale"}, decl.References)
}

func TestExtractNestedBlocksAndAtRules(t *testing.T) {
	decl, err := Extract(StyleSheet(`
		:host([disabled]) { --a: 1; }
		@media (forced-colors: active) {
			:host { --b: CanvasText; }
		}
		:host { .label { --c: 2 } }
		@supports (color: red) { :host { --d: 4; } }
	`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, decl.Names())
}

func TestExtractLastValueWins(t *testing.T) {
	decl, err := Extract(StyleSheet(`
		:host { --outline-color: #79747e; }
		@media (forced-colors: active) { :host { --outline-color: CanvasText; } }
	`))
	require.NoError(t, err)

	assert.Equal(t, []string{"outline-color"}, decl.Names())
	v, _ := decl.Value("outline-color")
	assert.Equal(t, "CanvasText", v)
}

func TestExtractIgnoresComments(t *testing.T) {
	decl, err := Extract(StyleSheet(`
		/* --commented-out: 1; */
		:host {
			/* --also-commented: 2; */
			--real: 3; /* trailing */
		}
	`))
	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, decl.Names())
}

func TestExtractCaseSensitiveNames(t *testing.T) {
	decl, err := Extract(StyleSheet(`:host { --Color: red; --color: blue; }`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Color", "color"}, decl.Names())
}

func TestExtractEmptyArtifact(t *testing.T) {
	decl, err := Extract(StyleSheet(""))
	require.NoError(t, err)
	assert.Empty(t, decl.Names())

	decl, err = Extract(Bundle{})
	require.NoError(t, err)
	assert.Empty(t, decl.Names())
}

func TestExtractBundleKeepsSheetOrder(t *testing.T) {
	decl, err := Extract(Bundle{
		StyleSheet(`:host { --b: 1; }`),
		nil,
		Bundle{StyleSheet(`:host { --a: 2; --b: 3; }`)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, decl.Names())
	v, _ := decl.Value("b")
	assert.Equal(t, "3", v)
}

func TestExtractDeclarations(t *testing.T) {
	decl, err := Extract(Declarations{
		{Name: "--color", Value: "red"},
		{Name: "shape", Value: "4px"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"color", "shape"}, decl.Names())
	v, _ := decl.Value("shape")
	assert.Equal(t, "4px", v)
}

func TestExtractDeclarationsValuesAreOpaque(t *testing.T) {
	decl, err := Extract(Declarations{
		{Name: "color", Value: "red; --color-hover: blue"},
		{Name: "shape", Value: "4px } :host { --leak: 1"},
		{Name: "outline", Value: "var(--md-sys-color-outline)"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"color", "shape", "outline"}, decl.Names())
	assert.False(t, decl.Has("color-hover"))
	assert.False(t, decl.Has("leak"))
	v, _ := decl.Value("color")
	assert.Equal(t, "red; --color-hover: blue", v)
	assert.Equal(t, []string{"md-sys-color-outline"}, decl.References)
}

func TestExtractDeclarationsInBundle(t *testing.T) {
	decl, err := Extract(Bundle{
		StyleSheet(`:host { --a: 1; }`),
		Declarations{{Name: "b", Value: "2"}},
		StyleSheet(`:host { --c: 3;`),
	})
	require.Error(t, err)

	var malformed *MalformedStyleError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Sheet)
	assert.Nil(t, decl)
}

func TestExtractDeclarationsInvalidName(t *testing.T) {
	for _, name := range []string{"", "--", "two words", "a;b", "a:b"} {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(Bundle{
				StyleSheet(`:host { --a: 1; }`),
				Declarations{{Name: name, Value: "1"}},
			})
			var malformed *MalformedStyleError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, 1, malformed.Sheet)
			assert.Contains(t, malformed.Reason, "invalid custom property name")
		})
	}
}

func TestExtractStripsImportant(t *testing.T) {
	decl, err := Extract(StyleSheet(`:host {
		--a: red !important;
		--b: 4px! IMPORTANT;
		--c: important;
		--d: "x" ! important ;
	}`))
	require.NoError(t, err)

	for name, want := range map[string]string{"a": "red", "b": "4px", "c": "important", "d": `"x"`} {
		v, ok := decl.Value(name)
		require.True(t, ok, name)
		assert.Equal(t, want, v, name)
	}

	decl, err = Extract(Declarations{{Name: "e", Value: " blue !important "}})
	require.NoError(t, err)
	v, _ := decl.Value("e")
	assert.Equal(t, "blue", v)
}

func TestExtractMalformed(t *testing.T) {
	tests := []struct {
		name   string
		sheet  string
		reason string
		line   int
	}{
		{
			name:   "unclosed block",
			sheet:  ":host {\n  --a: 1;\n",
			reason: "unclosed block",
			line:   3,
		},
		{
			name:   "stray closing brace",
			sheet:  ":host { --a: 1; }\n}",
			reason: `unexpected "}"`,
			line:   2,
		},
		{
			name:   "mismatched bracket",
			sheet:  ":host([disabled) { --a: 1; }",
			reason: `unexpected ")"`,
			line:   1,
		},
		{
			name:   "declaration outside block",
			sheet:  "--a: 1;",
			reason: "outside a rule block",
			line:   1,
		},
		{
			name:   "missing colon",
			sheet:  ":host {\n  --a 1;\n}",
			reason: "not followed by ':'",
			line:   2,
		},
		{
			name:   "unbalanced value",
			sheet:  ":host { --a: calc(1px + 2px; }",
			reason: `unexpected "}"`,
			line:   1,
		},
		{
			name:   "unterminated string",
			sheet:  ":host {\n  --font: \"Roboto;\n}",
			reason: "unterminated string",
			line:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(StyleSheet(tt.sheet))
			require.Error(t, err)

			var malformed *MalformedStyleError
			require.True(t, errors.As(err, &malformed))
			assert.Contains(t, malformed.Reason, tt.reason)
			assert.Equal(t, tt.line, malformed.Line)
			assert.Equal(t, 0, malformed.Sheet)
		})
	}
}

func TestExtractMalformedReportsSheetIndex(t *testing.T) {
	_, err := Extract(Bundle{
		StyleSheet(`:host { --a: 1; }`),
		StyleSheet(`:host { --b: 1;`),
	})
	require.Error(t, err)

	var malformed *MalformedStyleError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Sheet)
	assert.Contains(t, err.Error(), "malformed style sheet 1")
}

func TestExtractNilArtifact(t *testing.T) {
	_, err := Extract(nil)
	var malformed *MalformedStyleError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "malformed style sheet 0: no style artifact", err.Error())
}

func TestExtractIsRepeatable(t *testing.T) {
	sheet := StyleSheet(`:host { --a: 1; --b: var(--c); }`)

	first, err := Extract(sheet)
	require.NoError(t, err)
	second, err := Extract(sheet)
	require.NoError(t, err)

	assert.Equal(t, first.Definitions, second.Definitions)
	assert.Equal(t, first.References, second.References)
}

func TestReadFiles(t *testing.T) {
	bundle, err := ReadFiles(filepath.Join("..", "..", "testdata", "styles", "outlined-button.css"))
	require.NoError(t, err)
	require.Len(t, bundle, 1)

	decl, err := Extract(bundle)
	require.NoError(t, err)
	assert.True(t, decl.Has("md-outlined-button-outline-width"))
	assert.Contains(t, decl.References, "md-sys-color-outline")

	_, err = ReadFiles("/nonexistent/button.css")
	assert.Error(t, err)
}

func TestDeclarationsRendering(t *testing.T) {
	sheets := Declarations{{Name: "a", Value: "1"}}.StyleSheets()
	assert.Equal(t, []string{":host {\n  --a: 1;\n}\n"}, sheets)

	empty := Declarations(nil).StyleSheets()
	assert.Equal(t, []string{":host {\n}\n"}, empty)
}
