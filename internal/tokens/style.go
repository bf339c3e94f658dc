package tokens

// Declaration is a custom property definition found in a style artifact.
type Declaration struct {
	Name  string `json:"name"`  // without the leading "--"
	Value string `json:"value"` // raw value text, trimmed
}

// StyleDeclaration is the token set actually declared by a component.
// Definitions keep their first-encounter order; a redefinition replaces
// the value but not the position.
type StyleDeclaration struct {
	Definitions []Declaration `json:"definitions"`
	References  []string      `json:"references,omitempty"` // names used inside var(), unique

	index map[string]int
	refs  map[string]bool
}

// NewStyleDeclaration creates an empty declaration set.
func NewStyleDeclaration() *StyleDeclaration {
	return &StyleDeclaration{
		Definitions: []Declaration{},
		index:       make(map[string]int),
		refs:        make(map[string]bool),
	}
}

// ensureIndex rebuilds the lookup maps, e.g. after JSON decoding.
func (d *StyleDeclaration) ensureIndex() {
	if d.index != nil {
		return
	}
	d.index = make(map[string]int, len(d.Definitions))
	for i, decl := range d.Definitions {
		d.index[decl.Name] = i
	}
	d.refs = make(map[string]bool, len(d.References))
	for _, ref := range d.References {
		d.refs[ref] = true
	}
}

// Define records a custom property definition.
func (d *StyleDeclaration) Define(name, value string) {
	d.ensureIndex()
	if i, ok := d.index[name]; ok {
		d.Definitions[i].Value = value
		return
	}
	d.index[name] = len(d.Definitions)
	d.Definitions = append(d.Definitions, Declaration{Name: name, Value: value})
}

// Reference records a var() reference.
func (d *StyleDeclaration) Reference(name string) {
	d.ensureIndex()
	if d.refs[name] {
		return
	}
	d.refs[name] = true
	d.References = append(d.References, name)
}

// Has reports whether name is defined (references do not count).
func (d *StyleDeclaration) Has(name string) bool {
	d.ensureIndex()
	_, ok := d.index[name]
	return ok
}

// Value returns the defined value of name.
func (d *StyleDeclaration) Value(name string) (string, bool) {
	d.ensureIndex()
	i, ok := d.index[name]
	if !ok {
		return "", false
	}
	return d.Definitions[i].Value, true
}

// Names returns the defined names in encounter order.
func (d *StyleDeclaration) Names() []string {
	names := make([]string, len(d.Definitions))
	for i, decl := range d.Definitions {
		names[i] = decl.Name
	}
	return names
}

// Undefined returns referenced names that are never defined.
func (d *StyleDeclaration) Undefined() []string {
	var out []string
	for _, ref := range d.References {
		if !d.Has(ref) {
			out = append(out, ref)
		}
	}
	return out
}
