package compiler

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/roach88/tokencheck/internal/tokens"
)

//go:embed schema/family.json
var familyJSONSchema string

var familySchemaLoader = gojsonschema.NewStringLoader(familyJSONSchema)

// jsonFamily mirrors the on-disk layout of a *.tokens.json file.
type jsonFamily struct {
	Family  string            `json:"family"`
	Extends string            `json:"extends"`
	Prefix  string            `json:"prefix"`
	Remove  []string          `json:"remove"`
	Tokens  []json.RawMessage `json:"tokens"`
}

// CompileFamilyJSON parses a *.tokens.json document into a FamilySchema.
// The document is checked against the embedded family JSON schema first;
// every schema violation is reported in a single CompileError.
func CompileFamilyJSON(source string, data []byte) (*tokens.FamilySchema, error) {
	result, err := gojsonschema.Validate(familySchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &CompileError{
			Field:   "json",
			Message: fmt.Sprintf("%s: %v", source, err),
		}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, &CompileError{
			Field:   "json",
			Message: fmt.Sprintf("%s: %s", source, strings.Join(msgs, "; ")),
		}
	}

	var raw jsonFamily
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &CompileError{
			Field:   "json",
			Message: fmt.Sprintf("%s: %v", source, err),
		}
	}

	fam := &tokens.FamilySchema{
		ID:      raw.Family,
		Extends: raw.Extends,
		Prefix:  raw.Prefix,
		Remove:  raw.Remove,
		Tokens:  make([]tokens.TokenSpec, 0, len(raw.Tokens)),
		Source:  source,
	}

	for i, entry := range raw.Tokens {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			fam.Tokens = append(fam.Tokens, tokens.TokenSpec{Name: name})
			continue
		}
		var spec tokens.TokenSpec
		if err := json.Unmarshal(entry, &spec); err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("tokens[%d]", i),
				Message: fmt.Sprintf("%s: %v", source, err),
			}
		}
		fam.Tokens = append(fam.Tokens, spec)
	}

	return fam, nil
}
