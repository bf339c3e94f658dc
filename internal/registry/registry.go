package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/tokencheck/internal/compiler"
	"github.com/roach88/tokencheck/internal/tokens"
)

// Registry is an immutable set of family schemas with precomputed resolution.
type Registry struct {
	families map[string]tokens.FamilySchema
	resolved map[string]*tokens.ResolvedSchema
	ids      []string // sorted
}

// New validates families and builds a Registry.
// Returns a *SchemaError listing every problem found (does not fail-fast).
func New(families []tokens.FamilySchema) (*Registry, error) {
	var errs []compiler.ValidationError

	r := &Registry{
		families: make(map[string]tokens.FamilySchema, len(families)),
		resolved: make(map[string]*tokens.ResolvedSchema, len(families)),
	}

	for i := range families {
		fam := families[i]
		errs = append(errs, compiler.Validate(&fam)...)

		if prev, dup := r.families[fam.ID]; dup {
			errs = append(errs, compiler.ValidationError{
				Family:  fam.ID,
				Field:   "family",
				Message: fmt.Sprintf("family %q defined twice (%s, %s)", fam.ID, sourceName(prev), sourceName(fam)),
				Code:    compiler.ErrDuplicateFamily,
			})
			continue
		}
		r.families[fam.ID] = fam
		r.ids = append(r.ids, fam.ID)
	}
	sort.Strings(r.ids)

	// E110: every base must be registered
	for _, id := range r.ids {
		fam := r.families[id]
		if fam.Extends == "" {
			continue
		}
		if _, ok := r.families[fam.Extends]; !ok {
			errs = append(errs, compiler.ValidationError{
				Family:  id,
				Field:   "extends",
				Message: fmt.Sprintf("family %q extends unknown family %q", id, fam.Extends),
				Code:    compiler.ErrUnknownBase,
			})
		}
	}

	// E111: the extends graph must be acyclic
	cycles := findCycles(r.families)
	for _, cycle := range cycles {
		errs = append(errs, compiler.ValidationError{
			Family:  cycle[0],
			Field:   "extends",
			Message: fmt.Sprintf("inheritance cycle: %s", strings.Join(cycle, " -> ")),
			Code:    compiler.ErrInheritanceCycle,
		})
	}

	if len(errs) > 0 {
		return nil, &SchemaError{Errors: errs}
	}

	// Chains are finite now; resolve every family once
	for _, id := range r.ids {
		schema, resolveErrs := r.resolve(id)
		errs = append(errs, resolveErrs...)
		r.resolved[id] = schema
	}
	if len(errs) > 0 {
		return nil, &SchemaError{Errors: errs}
	}

	return r, nil
}

// Resolve returns the ordered token schema of a family with inheritance applied.
// The returned schema is a copy; callers may modify it freely.
func (r *Registry) Resolve(familyID string) (*tokens.ResolvedSchema, error) {
	schema, ok := r.resolved[familyID]
	if !ok {
		return nil, &UnknownFamilyError{Family: familyID, Known: r.Families()}
	}

	out := *schema
	out.Chain = append([]string(nil), schema.Chain...)
	out.Tokens = append([]tokens.TokenSpec(nil), schema.Tokens...)
	return &out, nil
}

// Families returns the registered family ids in sorted order.
func (r *Registry) Families() []string {
	return append([]string(nil), r.ids...)
}

// Family returns the unresolved definition of a family.
func (r *Registry) Family(familyID string) (tokens.FamilySchema, bool) {
	fam, ok := r.families[familyID]
	return fam, ok
}

// chain returns family ids from the root base down to familyID.
// Callers must ensure the graph is acyclic and complete.
func (r *Registry) chain(familyID string) []string {
	var rev []string
	for id := familyID; id != ""; id = r.families[id].Extends {
		rev = append(rev, id)
	}
	out := make([]string, len(rev))
	for i, id := range rev {
		out[len(rev)-1-i] = id
	}
	return out
}

// resolve flattens the inheritance chain of one family.
func (r *Registry) resolve(familyID string) (*tokens.ResolvedSchema, []compiler.ValidationError) {
	var errs []compiler.ValidationError

	chain := r.chain(familyID)
	var list []tokens.TokenSpec
	prefix := ""

	for _, id := range chain {
		fam := r.families[id]
		if fam.Prefix != "" {
			prefix = fam.Prefix
		}

		// Drop removed tokens
		for i, name := range fam.Remove {
			idx := indexOf(list, name)
			if idx < 0 {
				errs = append(errs, compiler.ValidationError{
					Family:  id,
					Field:   fmt.Sprintf("remove[%d]", i),
					Message: fmt.Sprintf("family %q removes %q, which %q does not define", id, name, fam.Extends),
					Code:    compiler.ErrRemoveNotInherited,
				})
				continue
			}
			list = append(list[:idx], list[idx+1:]...)
		}

		// Override in place or append
		for _, tok := range fam.Tokens {
			if idx := indexOf(list, tok.Name); idx >= 0 {
				list[idx] = tok
				continue
			}
			list = append(list, tok)
		}
	}

	qualified := make([]tokens.TokenSpec, len(list))
	for i, tok := range list {
		tok.Name = tokens.Qualify(prefix, tok.Name)
		qualified[i] = tok
	}

	return &tokens.ResolvedSchema{
		Family: familyID,
		Prefix: prefix,
		Chain:  chain,
		Tokens: qualified,
	}, errs
}

// indexOf returns the position of the token named name, or -1.
func indexOf(list []tokens.TokenSpec, name string) int {
	for i, tok := range list {
		if tok.Name == name {
			return i
		}
	}
	return -1
}

func sourceName(fam tokens.FamilySchema) string {
	if fam.Source == "" {
		return "<inline>"
	}
	return fam.Source
}
