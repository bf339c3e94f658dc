package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/tokencheck/internal/tokens"
)

// TokenVerificationFailure is returned by a failing test case.
// Results holds the findings behind the failure: one record for a token
// case, every unexpected extra for the aggregate case.
type TokenVerificationFailure struct {
	Family  string
	Results []tokens.Result
}

// Error implements the error interface.
func (e *TokenVerificationFailure) Error() string {
	parts := make([]string, len(e.Results))
	for i, r := range e.Results {
		parts[i] = r.String()
	}
	return fmt.Sprintf("family %q: %s", e.Family, strings.Join(parts, "; "))
}
