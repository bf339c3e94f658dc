package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tokencheck/internal/extract"
	"github.com/roach88/tokencheck/internal/testutil"
)

// Properties checked against every fixture family: an exact artifact
// passes, dropping a token fails only its case, and adding a foreign
// token fails only the extras case.
func TestFamilyProperties(t *testing.T) {
	reg := loadButtons(t)

	for _, id := range reg.Families() {
		t.Run(id, func(t *testing.T) {
			schema, err := reg.Resolve(id)
			require.NoError(t, err)
			exact := testutil.FromSchema(schema)

			cases, err := Generate(reg, id, extract.StyleSheet(exact.String()), WithValues(true))
			require.NoError(t, err)
			require.Len(t, cases, len(schema.Tokens)+1)
			for _, tc := range cases {
				assert.NoError(t, tc.Run(), tc.Name)
			}

			for i, tok := range schema.Tokens {
				sheet := exact.Clone().Without(tok.Name)
				regressed, err := Generate(reg, id, extract.StyleSheet(sheet.String()))
				require.NoError(t, err)

				for j, tc := range regressed {
					if j == i {
						assert.Error(t, tc.Run(), tc.Name)
					} else {
						assert.NoError(t, tc.Run(), tc.Name)
					}
				}
			}

			leaked := exact.Clone().Token("leaked-from-elsewhere", "0")
			leakedCases, err := Generate(reg, id, extract.StyleSheet(leaked.String()))
			require.NoError(t, err)
			for j, tc := range leakedCases {
				if j == len(leakedCases)-1 {
					assert.Error(t, tc.Run(), tc.Name)
				} else {
					assert.NoError(t, tc.Run(), tc.Name)
				}
			}
		})
	}
}
