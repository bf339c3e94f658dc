package tokens

import "fmt"

// Status classifies one verification finding.
type Status string

// Verification statuses.
const (
	StatusPresent       Status = "present"
	StatusMissing       Status = "missing"
	StatusUnexpected    Status = "unexpected-extra"
	StatusValueMismatch Status = "value-mismatch"
)

// Result is one (component, token) verification record.
type Result struct {
	Family   string `json:"family,omitempty"`
	Token    string `json:"token"`
	Status   Status `json:"status"`
	Expected string `json:"expected,omitempty"` // schema default, value-mismatch only
	Actual   string `json:"actual,omitempty"`   // declared value, value-mismatch only
}

// Passed reports whether the result is present-and-valid.
func (r Result) Passed() bool {
	return r.Status == StatusPresent
}

// String renders the result for failure messages.
func (r Result) String() string {
	switch r.Status {
	case StatusValueMismatch:
		return fmt.Sprintf("%s(%s): expected %q, got %q", r.Status, r.Token, r.Expected, r.Actual)
	default:
		return fmt.Sprintf("%s(%s)", r.Status, r.Token)
	}
}
