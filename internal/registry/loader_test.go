package registry

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tokencheck/internal/compiler"
)

var testdataTokens = filepath.Join("..", "..", "testdata", "tokens")

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDirTestdata(t *testing.T) {
	r, err := LoadDir(testdataTokens, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"button", "filled-button", "outlined-button", "text-button"}, r.Families())

	outlined, err := r.Resolve("outlined-button")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"md-outlined-button-container-shape",
		"md-outlined-button-container-height",
		"md-outlined-button-label-text-color",
		"md-outlined-button-label-text-size",
		"md-outlined-button-icon-size",
		"md-outlined-button-hover-state-layer-opacity",
		"md-outlined-button-outline-color",
		"md-outlined-button-outline-width",
	}, outlined.Names())

	text, err := r.Resolve("text-button")
	require.NoError(t, err)
	assert.Len(t, text.Tokens, 6)
	assert.Equal(t, "md-text-button", text.Prefix)
}

func TestLoadDirMixedSourcesCanExtendEachOther(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.cue", `
package tokens

family: chip: {
	tokens: ["container-color", "label-text-color"]
}
`)
	writeFile(t, dir, "variants/filter-chip.tokens.json", `{
		"family": "filter-chip",
		"extends": "chip",
		"prefix": "md-filter-chip",
		"tokens": ["selected-container-color"]
	}`)

	r, err := LoadDir(dir, LoadOptions{})
	require.NoError(t, err)

	schema, err := r.Resolve("filter-chip")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"md-filter-chip-container-color",
		"md-filter-chip-label-text-color",
		"md-filter-chip-selected-container-color",
	}, schema.Names())

	fam, ok := r.Family("filter-chip")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "variants", "filter-chip.tokens.json"), fam.Source)
}

func TestLoadDirJSONOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "switch.tokens.json", `{"family": "switch", "tokens": ["track-color"]}`)

	r, err := LoadDir(dir, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"switch"}, r.Families())
}

func TestLoadDirNotFound(t *testing.T) {
	_, err := LoadDir("/nonexistent/tokens", LoadOptions{})
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadDirNotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file.cue", "package tokens\n")

	_, err := LoadDir(filepath.Join(dir, "file.cue"), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLoadDirNoFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "nothing here")

	_, err := LoadDir(dir, LoadOptions{})
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadDirCUESyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.cue", `
package tokens

family: button: {
	tokens: ["a"
}
`)

	_, err := LoadDir(dir, LoadOptions{})
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeLoadFailed, loadErr.Code)
}

func TestLoadDirCompileErrorKeepsCause(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.cue", `
package tokens

family: button: {
	tokenz: ["a"]
}
`)

	_, err := LoadDir(dir, LoadOptions{})
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeCompile, loadErr.Code)

	var cErr *compiler.CompileError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "tokenz", cErr.Field)
}

func TestLoadDirValidationErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.cue", `
package tokens

family: button: {
	tokens: ["color", "color"]
}
`)

	_, err := LoadDir(dir, LoadOptions{})
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, compiler.ErrDuplicateToken, schemaErr.Errors[0].Code)
}

func TestLoadDirLogsFamilies(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := LoadDir(testdataTokens, LoadOptions{Logger: logger})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "compiled token family")
	assert.Contains(t, buf.String(), "family=outlined-button")
	assert.Contains(t, buf.String(), "family=text-button")
}

func TestFindSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.cue", "package tokens\n")
	writeFile(t, dir, "a.cue", "package tokens\n")
	writeFile(t, dir, "nested/x.tokens.json", "{}")
	writeFile(t, dir, "plain.json", "{}")

	files, err := FindSources(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.cue"), filepath.Join(dir, "b.cue")}, files.CUE)
	assert.Equal(t, []string{filepath.Join(dir, "nested", "x.tokens.json")}, files.JSON)
}
