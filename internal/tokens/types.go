package tokens

// Category classifies the value a token carries.
type Category string

// Token categories.
const (
	CategoryColor      Category = "color"
	CategoryLength     Category = "length"
	CategoryShape      Category = "shape"
	CategoryDuration   Category = "duration"
	CategoryNumber     Category = "number"
	CategoryTypography Category = "typography"
)

// ValidCategories defines allowed token categories. The empty category is
// also accepted and means "unclassified".
var ValidCategories = map[Category]bool{
	CategoryColor:      true,
	CategoryLength:     true,
	CategoryShape:      true,
	CategoryDuration:   true,
	CategoryNumber:     true,
	CategoryTypography: true,
}

// TokenSpec is one expected token of a family schema.
type TokenSpec struct {
	Name     string   `json:"name"`
	Category Category `json:"category,omitempty"`
	Default  string   `json:"default,omitempty"` // expected bound value, optional
}

// FamilySchema is a compiled, unresolved family definition.
// A family with Extends set is a variant of that base family.
type FamilySchema struct {
	ID      string      `json:"id"`
	Extends string      `json:"extends,omitempty"`
	Prefix  string      `json:"prefix,omitempty"`
	Tokens  []TokenSpec `json:"tokens"`
	Remove  []string    `json:"remove,omitempty"` // inherited tokens dropped by this variant
	Source  string      `json:"source,omitempty"` // file the family was compiled from
}

// ResolvedSchema is the flattened token list of a family after inheritance.
// Token names are qualified with the prefix.
type ResolvedSchema struct {
	Family string      `json:"family"`
	Prefix string      `json:"prefix,omitempty"`
	Chain  []string    `json:"chain"` // family ids from base to variant
	Tokens []TokenSpec `json:"tokens"`
}

// Names returns the qualified token names in schema order.
func (s *ResolvedSchema) Names() []string {
	names := make([]string, len(s.Tokens))
	for i, tok := range s.Tokens {
		names[i] = tok.Name
	}
	return names
}

// Lookup returns the token spec with the given qualified name.
func (s *ResolvedSchema) Lookup(name string) (TokenSpec, bool) {
	for _, tok := range s.Tokens {
		if tok.Name == name {
			return tok, true
		}
	}
	return TokenSpec{}, false
}

// Qualify joins a family prefix and a short token name.
// An empty prefix leaves the name unchanged.
func Qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "-" + name
}
