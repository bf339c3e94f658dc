package harness

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/tokencheck/internal/extract"
	"github.com/roach88/tokencheck/internal/tokens"
)

// CaseResult is the outcome of one test case.
type CaseResult struct {
	Name     string          `json:"name"`
	Token    string          `json:"token,omitempty"`
	Pass     bool            `json:"pass"`
	Message  string          `json:"message,omitempty"`
	Findings []tokens.Result `json:"findings,omitempty"`
}

// SuiteResult is the outcome of running every case for one component.
type SuiteResult struct {
	Name   string       `json:"name"`
	Family string       `json:"family"`
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`

	// Pass is true when the failing cases are exactly the expected ones.
	Pass bool `json:"pass"`

	// Errors explains expectation mismatches.
	Errors []string `json:"errors,omitempty"`
}

// Execute runs cases in order and collects their outcomes. Every case
// runs regardless of earlier failures. expectFailing names the cases
// allowed to fail; nil means none.
func Execute(name, family string, cases []TestCase, expectFailing []string) *SuiteResult {
	result := &SuiteResult{
		Name:   name,
		Family: family,
		Cases:  make([]CaseResult, 0, len(cases)),
		Total:  len(cases),
		Errors: []string{},
	}

	var failing []string
	for _, tc := range cases {
		cr := CaseResult{Name: tc.Name, Token: tc.Token, Pass: true}
		if err := tc.Run(); err != nil {
			cr.Pass = false
			cr.Message = err.Error()
			var failure *TokenVerificationFailure
			if errors.As(err, &failure) {
				cr.Findings = failure.Results
			}
		}
		if cr.Pass {
			result.Passed++
		} else {
			result.Failed++
			failing = append(failing, tc.Name)
		}
		result.Cases = append(result.Cases, cr)
	}

	for _, name := range failing {
		if !slices.Contains(expectFailing, name) {
			result.Errors = append(result.Errors, fmt.Sprintf("unexpected failure: %s", name))
		}
	}
	for _, name := range expectFailing {
		if !slices.Contains(failing, name) {
			result.Errors = append(result.Errors, fmt.Sprintf("expected failure did not occur: %s", name))
		}
	}
	result.Pass = len(result.Errors) == 0

	return result
}

// Run generates and executes the cases of a suite.
// Structural errors (unknown family, unreadable or malformed styles) are
// returned as errors; case failures are reported in the result.
func Run(suite *Suite, reg Resolver, opts ...Option) (*SuiteResult, error) {
	artifact, err := extract.ReadFiles(suite.Styles...)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", suite.Name, err)
	}

	opts = append(opts, WithValues(suite.Values))
	cases, err := Generate(reg, suite.Family, artifact, opts...)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", suite.Name, err)
	}

	var expectFailing []string
	if suite.Expect != nil {
		expectFailing = suite.Expect.Failing
	}
	return Execute(suite.Name, suite.Family, cases, expectFailing), nil
}
