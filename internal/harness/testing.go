package harness

import "testing"

// RunTests runs every case as a parallel subtest of t.
func RunTests(t *testing.T, cases []TestCase) {
	t.Helper()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			if err := tc.Run(); err != nil {
				t.Error(err)
			}
		})
	}
}
