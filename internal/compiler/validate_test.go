package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tokencheck/internal/tokens"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateFamilyValid(t *testing.T) {
	fam := &tokens.FamilySchema{
		ID:     "button",
		Prefix: "md-button",
		Tokens: []tokens.TokenSpec{
			{Name: "container-color", Category: tokens.CategoryColor},
			{Name: "container-shape", Category: tokens.CategoryShape},
			{Name: "label-text-size"},
		},
	}

	assert.Empty(t, Validate(fam), "valid family should have no errors")
}

func TestValidateVariantWithoutTokens(t *testing.T) {
	fam := &tokens.FamilySchema{ID: "elevated-button", Extends: "button"}
	assert.Empty(t, Validate(fam), "variant may inherit everything")
}

func TestValidateFamilyErrors(t *testing.T) {
	tests := []struct {
		name string
		fam  tokens.FamilySchema
		code string
	}{
		{
			name: "empty id",
			fam:  tokens.FamilySchema{Tokens: []tokens.TokenSpec{{Name: "a"}}},
			code: ErrInvalidFamilyID,
		},
		{
			name: "id with spaces",
			fam:  tokens.FamilySchema{ID: "outlined button", Tokens: []tokens.TokenSpec{{Name: "a"}}},
			code: ErrInvalidFamilyID,
		},
		{
			name: "base without tokens",
			fam:  tokens.FamilySchema{ID: "button"},
			code: ErrFamilyNoTokens,
		},
		{
			name: "token name with leading dashes",
			fam:  tokens.FamilySchema{ID: "button", Tokens: []tokens.TokenSpec{{Name: "--color"}}},
			code: ErrInvalidTokenName,
		},
		{
			name: "unknown category",
			fam:  tokens.FamilySchema{ID: "button", Tokens: []tokens.TokenSpec{{Name: "color", Category: "colour"}}},
			code: ErrUnknownCategory,
		},
		{
			name: "duplicate token",
			fam:  tokens.FamilySchema{ID: "button", Tokens: []tokens.TokenSpec{{Name: "color"}, {Name: "color"}}},
			code: ErrDuplicateToken,
		},
		{
			name: "bad prefix",
			fam:  tokens.FamilySchema{ID: "button", Prefix: "md button", Tokens: []tokens.TokenSpec{{Name: "a"}}},
			code: ErrInvalidPrefix,
		},
		{
			name: "remove without base",
			fam:  tokens.FamilySchema{ID: "button", Remove: []string{"a"}, Tokens: []tokens.TokenSpec{{Name: "b"}}},
			code: ErrInvalidRemove,
		},
		{
			name: "remove and redeclare",
			fam:  tokens.FamilySchema{ID: "x", Extends: "button", Remove: []string{"a"}, Tokens: []tokens.TokenSpec{{Name: "a"}}},
			code: ErrInvalidRemove,
		},
		{
			name: "duplicate remove",
			fam:  tokens.FamilySchema{ID: "x", Extends: "button", Remove: []string{"a", "a"}},
			code: ErrInvalidRemove,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.fam)
			require.NotEmpty(t, errs)
			assert.Contains(t, codes(errs), tt.code)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	fam := &tokens.FamilySchema{
		ID: "button",
		Tokens: []tokens.TokenSpec{
			{Name: "color", Category: "hue"},
			{Name: "color"},
			{Name: "bad name"},
		},
	}

	errs := Validate(fam)
	assert.Equal(t, []string{ErrUnknownCategory, ErrDuplicateToken, ErrInvalidTokenName}, codes(errs))
	for _, e := range errs {
		assert.Equal(t, "button", e.Family)
	}
}

func TestValidationErrorFormat(t *testing.T) {
	e := ValidationError{Field: "tokens[0].name", Message: "bad", Code: ErrInvalidTokenName}
	assert.Equal(t, "[E103] tokens[0].name: bad", e.Error())

	e.Line = 4
	assert.Equal(t, "[E103] line 4: tokens[0].name: bad", e.Error())
}
