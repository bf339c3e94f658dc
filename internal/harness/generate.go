package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/tokencheck/internal/extract"
	"github.com/roach88/tokencheck/internal/tokens"
	"github.com/roach88/tokencheck/internal/verify"
)

// ExtrasCaseName names the aggregate case asserting no unexpected tokens.
const ExtrasCaseName = "declares no unexpected tokens"

// Resolver resolves a family id to its flattened schema.
// *registry.Registry implements it.
type Resolver interface {
	Resolve(familyID string) (*tokens.ResolvedSchema, error)
}

// TestCase is one named assertion. Run re-extracts and re-verifies on
// every call and returns a *TokenVerificationFailure when the assertion
// does not hold.
type TestCase struct {
	Name  string
	Token string // qualified token name; empty for the extras case
	Run   func() error
}

// CaseName returns the test case name for a qualified token.
func CaseName(token string) string {
	return "declares " + token
}

type generator struct {
	logger *slog.Logger
	values bool
}

// Option configures Generate.
type Option func(*generator)

// WithLogger sets the logger for generation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithValues enables value-mismatch detection.
func WithValues(enabled bool) Option {
	return func(g *generator) {
		g.values = enabled
	}
}

// Generate builds the test cases for one component.
// The returned slice has one case per schema token, in schema order,
// followed by the extras case.
func Generate(reg Resolver, familyID string, artifact extract.Artifact, opts ...Option) ([]TestCase, error) {
	g := &generator{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}

	schema, err := reg.Resolve(familyID)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", familyID, err)
	}

	// Cases address results by schema position, which needs unique names.
	seen := make(map[string]bool, len(schema.Tokens))
	for _, spec := range schema.Tokens {
		if seen[spec.Name] {
			return nil, fmt.Errorf("generate %s: resolved schema lists token %q more than once", familyID, spec.Name)
		}
		seen[spec.Name] = true
	}

	// Extract once up front so a malformed artifact fails construction.
	decl, err := extract.Extract(artifact)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", familyID, err)
	}

	check := func() ([]tokens.Result, error) {
		decl, err := extract.Extract(artifact)
		if err != nil {
			return nil, err
		}
		return verify.VerifySchema(schema, decl, verify.Options{Values: g.values}), nil
	}

	cases := make([]TestCase, 0, len(schema.Tokens)+1)
	for i, spec := range schema.Tokens {
		cases = append(cases, TestCase{
			Name:  CaseName(spec.Name),
			Token: spec.Name,
			Run:   tokenCase(schema.Family, i, check),
		})
	}
	cases = append(cases, TestCase{
		Name: ExtrasCaseName,
		Run:  extrasCase(schema.Family, check),
	})

	g.logger.Debug("generated token test cases",
		"family", schema.Family,
		"chain", schema.Chain,
		"cases", len(cases),
		"declared", len(decl.Definitions),
		"values", g.values)

	return cases, nil
}

// tokenCase asserts the i-th schema token. Results list schema tokens
// first, so index i is stable.
func tokenCase(family string, i int, check func() ([]tokens.Result, error)) func() error {
	return func() error {
		results, err := check()
		if err != nil {
			return err
		}
		if r := results[i]; !r.Passed() {
			return &TokenVerificationFailure{Family: family, Results: []tokens.Result{r}}
		}
		return nil
	}
}

func extrasCase(family string, check func() ([]tokens.Result, error)) func() error {
	return func() error {
		results, err := check()
		if err != nil {
			return err
		}
		if _, extras := verify.Split(results); len(extras) > 0 {
			return &TokenVerificationFailure{Family: family, Results: extras}
		}
		return nil
	}
}
