package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tokencheck/internal/report"
	"github.com/roach88/tokencheck/internal/tokens"
)

// toCanonicalMap converts a SuiteResult for canonical JSON serialization.
// Failure messages are left out; findings carry the same information in
// structured form.
func (r *SuiteResult) toCanonicalMap() map[string]any {
	cases := make([]any, len(r.Cases))
	for i, c := range r.Cases {
		m := map[string]any{
			"name": c.Name,
			"pass": c.Pass,
		}
		if c.Token != "" {
			m["token"] = c.Token
		}
		if len(c.Findings) > 0 {
			m["findings"] = findingsToCanonical(c.Findings)
		}
		cases[i] = m
	}

	return map[string]any{
		"suite":  r.Name,
		"family": r.Family,
		"cases":  cases,
		"passed": r.Passed,
		"failed": r.Failed,
		"total":  r.Total,
	}
}

func findingsToCanonical(results []tokens.Result) []any {
	out := make([]any, len(results))
	for i, f := range results {
		m := map[string]any{
			"token":  f.Token,
			"status": string(f.Status),
		}
		if f.Expected != "" {
			m["expected"] = f.Expected
		}
		if f.Actual != "" {
			m["actual"] = f.Actual
		}
		out[i] = m
	}
	return out
}

// Snapshot returns the canonical JSON report of a suite result.
// Equal results always produce identical bytes.
func Snapshot(r *SuiteResult) ([]byte, error) {
	return report.MarshalCanonical(r.toCanonicalMap())
}

// Fingerprint returns a content hash of the suite report.
func Fingerprint(r *SuiteResult) (string, error) {
	return report.Fingerprint(report.DomainSuite, r.toCanonicalMap())
}

// AssertGolden compares a suite result against testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, r *SuiteResult) error {
	t.Helper()

	data, err := Snapshot(r)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
