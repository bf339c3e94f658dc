package verify

import (
	"fmt"

	"github.com/roach88/tokencheck/internal/tokens"
)

// Summary counts results by status.
type Summary struct {
	Total         int `json:"total"`
	Present       int `json:"present"`
	Missing       int `json:"missing"`
	Unexpected    int `json:"unexpected"`
	ValueMismatch int `json:"value_mismatch"`
}

// Summarize counts the statuses in results.
func Summarize(results []tokens.Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case tokens.StatusPresent:
			s.Present++
		case tokens.StatusMissing:
			s.Missing++
		case tokens.StatusUnexpected:
			s.Unexpected++
		case tokens.StatusValueMismatch:
			s.ValueMismatch++
		}
	}
	return s
}

// Passed reports whether every result is present-and-valid.
func (s Summary) Passed() bool {
	return s.Present == s.Total
}

func (s Summary) String() string {
	return fmt.Sprintf("%d present, %d missing, %d unexpected, %d value mismatch",
		s.Present, s.Missing, s.Unexpected, s.ValueMismatch)
}
